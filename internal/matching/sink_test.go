package matching

import "sync"

type addedEvent struct {
	orderID    uint32
	instrument string
	price      uint32
	count      uint32
	isSell     bool
	timestamp  uint64
}

type executedEvent struct {
	restingID      uint32
	aggressorID    uint32
	restingExecSeq uint32
	price          uint32
	count          uint32
	timestamp      uint64
}

type deletedEvent struct {
	orderID   uint32
	accepted  bool
	timestamp uint64
}

// recordingSink collects every emitted event under a single mutex, the
// way matching/correctness_robust_test.go's trade-collecting consumer
// does in the teacher repo.
type recordingSink struct {
	mu       sync.Mutex
	added    []addedEvent
	executed []executedEvent
	deleted  []deletedEvent
}

func newRecordingSink() *recordingSink {
	return &recordingSink{}
}

func (s *recordingSink) Added(orderID uint32, instrument string, price, count uint32, isSell bool, timestamp uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.added = append(s.added, addedEvent{orderID, instrument, price, count, isSell, timestamp})
}

func (s *recordingSink) Executed(restingID, aggressorID uint32, restingExecSeq, price, count uint32, timestamp uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executed = append(s.executed, executedEvent{restingID, aggressorID, restingExecSeq, price, count, timestamp})
}

func (s *recordingSink) Deleted(orderID uint32, accepted bool, timestamp uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, deletedEvent{orderID, accepted, timestamp})
}

func (s *recordingSink) snapshot() (added []addedEvent, executed []executedEvent, deleted []deletedEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]addedEvent(nil), s.added...), append([]executedEvent(nil), s.executed...), append([]deletedEvent(nil), s.deleted...)
}
