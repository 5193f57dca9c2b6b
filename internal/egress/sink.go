// Package egress defines the output side of the engine (spec.md §6): the
// three event emitters the matching core calls after releasing every lock
// it took to produce them. This is named as an external collaborator in
// spec.md ("how Added/Executed/Deleted events are serialized to the
// downstream consumer" is out of scope) — this package only fixes the
// interface and one concrete, low-ceremony sink (Stdout).
package egress

// Sink receives matching output events. Each method call must be atomic
// with respect to other calls on the same Sink — spec.md §5 requires that
// "a single logical event is written without interleaving" — but the
// three methods are otherwise unordered with respect to each other across
// different instruments.
type Sink interface {
	// Added is emitted when an aggressor rests with residual volume.
	Added(orderID uint32, instrument string, price, count uint32, isSell bool, timestamp uint64)

	// Executed is emitted once per crossing. Price is always the resting
	// order's price; execSeq is the resting order's per-order counter.
	Executed(restingID, aggressorID uint32, restingExecSeq, price, count uint32, timestamp uint64)

	// Deleted is emitted for every cancel. accepted is true iff the order
	// had strictly positive remaining count at the moment cancel observed
	// it.
	Deleted(orderID uint32, accepted bool, timestamp uint64)
}
