package call

import "time"

// Timer is a pending AfterFunc call
type Timer interface {
	Stop() bool
}

// Clock schedules the idle timeout
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock is backed by time.AfterFunc
func RealClock() Clock {
	return realClock{}
}
