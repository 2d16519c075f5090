package terminal

import (
	"time"

	"memorymatch/internal/ports"
)

// TimerScheduler implements ports.Scheduler with time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

var _ ports.Scheduler = TimerScheduler{}
