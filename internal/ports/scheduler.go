package ports

import "time"

// Scheduler runs a callback once after a delay. The returned cancel func
// stops the callback if it has not started; calling it more than once is safe.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func())
}
