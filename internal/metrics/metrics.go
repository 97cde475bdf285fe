package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Process-wide counters reported on /health.
var (
	Requests         Counter
	OrdersCreated    Counter
	PaymentsVerified Counter
	PaymentsRejected Counter
)

func Snapshot() map[string]uint64 {
	return map[string]uint64{
		"requests":          Requests.Load(),
		"orders_created":    OrdersCreated.Load(),
		"payments_verified": PaymentsVerified.Load(),
		"payments_rejected": PaymentsRejected.Load(),
	}
}
