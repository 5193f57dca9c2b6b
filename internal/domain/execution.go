package domain

// Execution is the immutable record of one crossing between an aggressor
// and a resting order. Fields are copied out of the two Orders while
// the resting order's Lock is held and never reference either Order again —
// this is what keeps executions acyclic (see spec.md §9,
// "Cyclic-free ownership").
type Execution struct {
	AggressorID   uint32
	RestingID     uint32
	RestingExecSeq uint32
	Price         uint32
	Count         uint32
	Timestamp     uint64
}
