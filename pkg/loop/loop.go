// Package loop runs page work on a single goroutine: posted tasks and a
// fixed-rate frame tick.
package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrStopped is returned by Post after Stop or once Run has returned.
var ErrStopped = errors.New("loop: stopped")

// Config configures the loop.
type Config struct {
	// TargetFPS is the frame rate of the tick (default: 60).
	TargetFPS int
	// QueueSize bounds pending posted tasks (default: 256).
	QueueSize int
}

func DefaultConfig() Config {
	return Config{TargetFPS: 60, QueueSize: 256}
}

// Frame is passed to the tick function.
type Frame struct {
	// Number is the monotonically increasing frame counter.
	Number uint64
	// DeltaTime is seconds since the previous frame.
	DeltaTime float64
	// Time is seconds since the loop started.
	Time float64
}

type Loop struct {
	config Config
	logger *zap.Logger
	tick   func(Frame)

	tasks    chan func()
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	running    atomic.Bool
	frameCount atomic.Uint64
	taskCount  atomic.Uint64
}

// New creates a loop. tick may be nil for a task-only loop.
func New(config Config, tick func(Frame), logger *zap.Logger) *Loop {
	def := DefaultConfig()
	if config.TargetFPS <= 0 {
		config.TargetFPS = def.TargetFPS
	}
	if config.QueueSize <= 0 {
		config.QueueSize = def.QueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		config: config,
		logger: logger,
		tick:   tick,
		tasks:  make(chan func(), config.QueueSize),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Post queues fn to run on the loop goroutine. It blocks while the queue
// is full.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.stop:
		return ErrStopped
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.stop:
		return ErrStopped
	}
}

// Do runs fn on the loop goroutine and waits for it.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes tasks and frames until ctx is cancelled or Stop is called.
// Tasks still queued at that point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("loop: already running")
	}
	defer close(l.done)
	defer l.Stop()

	interval := time.Second / time.Duration(l.config.TargetFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	last := start
	l.logger.Debug("loop started", zap.Int("fps", l.config.TargetFPS))
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("loop cancelled", zap.Uint64("frames", l.frameCount.Load()))
			return ctx.Err()
		case <-l.stop:
			l.logger.Debug("loop stopped", zap.Uint64("frames", l.frameCount.Load()))
			return nil
		case fn := <-l.tasks:
			fn()
			l.taskCount.Add(1)
		case now := <-ticker.C:
			if l.tick == nil {
				continue
			}
			n := l.frameCount.Add(1)
			l.tick(Frame{Number: n, DeltaTime: now.Sub(last).Seconds(), Time: now.Sub(start).Seconds()})
			last = now
		}
	}
}

// Stop ends Run. It is safe to call more than once and from any goroutine.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Done is closed when Run has returned.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Stats contains loop counters.
type Stats struct {
	FrameCount uint64
	TaskCount  uint64
	TargetFPS  int
}

func (l *Loop) Stats() Stats {
	return Stats{
		FrameCount: l.frameCount.Load(),
		TaskCount:  l.taskCount.Load(),
		TargetFPS:  l.config.TargetFPS,
	}
}
