package usecase

import "time"

// Clock supplies the coordinator's notion of now; injected so past-date
// rejection and cancellation cutoffs are testable.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func NewRealClock() Clock { return realClock{} }
