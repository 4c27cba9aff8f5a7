package gopool

import (
	"runtime/debug"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/courierkit/courier/log"
)

// DefaultPoolSize caps the shared worker pool when Init is called with
// a non-positive size.
var DefaultPoolSize = 1 << 16

const (
	// expiryDuration is the interval to clean up expired workers.
	expiryDuration = 10 * time.Second

	// nonblocking makes Submit fail instead of wait when the pool is
	// full; the caller then runs the task on a plain goroutine.
	nonblocking = true
)

type logger struct{}

func (*logger) Printf(format string, a ...interface{}) {
	log.Errorf(format, a...)
}

func init() {
	// release the default pool ants spins up on import
	ants.Release()
}

// Pool is the alias of ants.Pool.
type Pool = ants.Pool

var global *Pool

// Init instantiates the shared non-blocking worker pool, replacing any
// previous one.
func Init(size int) {
	if global != nil {
		global.Release()
	}
	if size <= 0 {
		size = DefaultPoolSize
	}
	options := ants.Options{
		ExpiryDuration: expiryDuration,
		Nonblocking:    nonblocking,
		PanicHandler: func(err interface{}) {
			log.Errorf("panic on worker: %v,\n %s", err, string(debug.Stack()))
		},
		Logger: &logger{},
	}
	global, _ = ants.NewPool(size, ants.WithOptions(options))
}

// Submit runs task on the shared pool, falling back to a plain
// goroutine when the pool is full or not initialized.
func Submit(task func()) {
	if global != nil {
		err := global.Submit(task)
		if err == nil {
			return
		}
		log.Warnw("msg", "goroutine pool submit failed", "err", err)
	}
	go task()
}

// Release reboots the shared pool, dropping idle workers.
func Release() {
	if global != nil {
		global.Reboot()
	}
}
