// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logger

import (
	"fmt"
	"sync"
	"time"

	"code.hybscloud.com/evoq"
	"code.hybscloud.com/evoq/atomics"
	"github.com/agilira/go-timecache"
	"github.com/agilira/lethe"
)

// DefaultQueueSize is the queue capacity New uses when given a
// non-positive size.
const DefaultQueueSize = 256

// DefaultMessageBufferSize mirrors the message_buffer_size config option.
// Go strings are immutable and already heap-allocated regardless of
// length, so there's no inline buffer to size here; this constant exists
// only so MessageBufferSize has something stable to report.
const DefaultMessageBufferSize = 512

// wakeTimeout bounds how long the consumer goroutine sleeps between
// queue checks -- logging itself is lock-free, so this wakeup must
// happen regularly in case a notification was missed.
const wakeTimeout = 500 * time.Millisecond

// Logger queues log messages from any number of producer goroutines and
// writes them, in order, from a single background goroutine.
type Logger struct {
	ring  *evoq.Ring
	cond  *atomics.Cond
	level atomics.Int32

	shutdownFlag atomics.Int32
	rotateFlag   atomics.Int32
	started      atomics.Int32

	localTime bool
	timeCache *timecache.TimeCache

	sinkMu   sync.Mutex // guards sink/filename, set only before start and read by the consumer goroutine
	sink     *lethe.Logger
	filename string

	wg sync.WaitGroup

	// Consumer-goroutine-only state; never touched by a producer, so it
	// needs no synchronization.
	closed    bool
	dropCount uint64

	errMu  sync.Mutex
	errMsg string
}

// New creates a Logger with the given queue capacity (rounded up to the
// package's minimum by the underlying Ring) at the default level, Warn.
// Call Open/StartThread (or Start) before logging anything.
func New(queueSize int) *Logger {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	lg := &Logger{
		ring:      evoq.NewRing(queueSize),
		cond:      atomics.NewCond(atomics.NewMutex()),
		timeCache: timecache.NewWithResolution(time.Millisecond),
	}
	lg.level.Store(int32(LevelWarn), atomics.Relaxed)
	return lg
}

// SetLevel sets the current log level; messages less severe than this are
// dropped before being queued.
func (lg *Logger) SetLevel(level Level) {
	lg.level.Store(int32(level), atomics.Release)
}

// SetLocalTime sets whether timestamps are rendered in local time instead
// of UTC.
func (lg *Logger) SetLocalTime(local bool) {
	lg.localTime = local
}

// MessageBufferSize reports the configured message buffer size. This is
// a fixed, informational value: Go has no per-message inline buffer to
// size, so the message_buffer_size option otherwise has no effect here.
func (lg *Logger) MessageBufferSize() int {
	return DefaultMessageBufferSize
}

// Check reports whether a message at level would actually be logged,
// without paying the cost of formatting it. Call this before building an
// expensive message and passing it to LogDirect.
func (lg *Logger) Check(level Level) bool {
	return level <= Level(lg.level.Load(atomics.Acquire))
}

// Log formats and queues msg if Check(level) passes, reporting whether it
// did. Prefer Check + LogDirect in hot paths to skip formatting work for
// messages that will be dropped.
func (lg *Logger) Log(level Level, msg string) bool {
	if !lg.Check(level) {
		return false
	}
	lg.LogDirect(level, msg)
	return true
}

// LogDirect queues msg unconditionally, without checking the current
// level. Callers that already called Check should use this to avoid a
// second level comparison.
func (lg *Logger) LogDirect(level Level, msg string) {
	ev := &logEvent{lg: lg, level: level, ts: lg.now(), msg: msg}
	lg.ring.Enqueue(ev)
	lg.cond.TryNotifyOne()
}

func (lg *Logger) now() time.Time {
	if lg.timeCache != nil {
		return lg.timeCache.Now()
	}
	return time.Now()
}

// Rotate tells the consumer goroutine to close and reopen the log file
// -- call this from a SIGHUP handler driving external log rotation. The
// consumer reopens after its current drain pass, so messages it drains in
// that pass still go to the old file.
func (lg *Logger) Rotate() {
	lg.rotateFlag.Store(1, atomics.Release)
	lg.cond.LockNotifyOne()
}

// GetError returns the last error the consumer goroutine recorded, and
// resets it so a subsequent call returns false unless another error has
// since occurred.
func (lg *Logger) GetError() (string, bool) {
	lg.errMu.Lock()
	defer lg.errMu.Unlock()
	if lg.errMsg == "" {
		return "", false
	}
	msg := lg.errMsg
	lg.errMsg = ""
	return msg, true
}

func (lg *Logger) setError(msg string) {
	lg.errMu.Lock()
	lg.errMsg = msg
	lg.errMu.Unlock()
}

// currentError reads the last recorded error without clearing it, for
// folding into the recovery record; GetError remains the clearing,
// producer-facing accessor.
func (lg *Logger) currentError() string {
	lg.errMu.Lock()
	defer lg.errMu.Unlock()
	return lg.errMsg
}

func (lg *Logger) clearError() {
	lg.errMu.Lock()
	lg.errMsg = ""
	lg.errMu.Unlock()
}

// Open creates the rotation-aware file sink without starting the
// consumer goroutine. maxSizeMB and maxBackups are forwarded to the
// underlying rotating writer; 0 means "use the library default".
func (lg *Logger) Open(path string, maxSizeMB, maxBackups int) error {
	if lg.started.Load(atomics.Acquire) != 0 {
		return fmt.Errorf("logger: can't open %q while already started", path)
	}
	if path == "" {
		return fmt.Errorf("logger: can't open an empty file path")
	}
	sink, err := lethe.New(path, maxSizeMB, maxBackups)
	if err != nil {
		return fmt.Errorf("logger: can't open %q: %w", path, err)
	}
	if _, err := sink.Write([]byte("\n")); err != nil {
		return fmt.Errorf("logger: can't open %q: %w", path, err)
	}
	lg.sinkMu.Lock()
	lg.sink = sink
	lg.filename = path
	lg.sinkMu.Unlock()
	return nil
}

// StartThread starts the consumer goroutine for an already-Opened
// Logger. It is idempotent: calling it again while already started is a
// no-op.
func (lg *Logger) StartThread() error {
	lg.sinkMu.Lock()
	sink := lg.sink
	lg.sinkMu.Unlock()
	if sink == nil {
		return fmt.Errorf("logger: file not open, call Open first")
	}
	if !lg.started.CompareAndSwap(0, 1, atomics.AcqRel, atomics.Acquire) {
		return nil
	}
	lg.wg.Add(1)
	go lg.run()
	return nil
}

// Start opens path and starts the consumer goroutine in one call.
func (lg *Logger) Start(path string, maxSizeMB, maxBackups int) error {
	if err := lg.Open(path, maxSizeMB, maxBackups); err != nil {
		return err
	}
	return lg.StartThread()
}

// Shutdown stops the consumer goroutine, flushing anything already
// queued first. It is safe to call from any goroutine and safe to call
// more than once.
func (lg *Logger) Shutdown() {
	if lg.started.Load(atomics.Acquire) == 0 {
		return
	}
	lg.shutdownFlag.Store(1, atomics.Release)
	lg.cond.LockNotifyOne()
	lg.wg.Wait()
}

// run is the single background consumer goroutine: it drains the queue,
// checks for shutdown, handles rotation or error recovery between
// batches, then waits for more work.
func (lg *Logger) run() {
	defer lg.wg.Done()
	for {
		lg.ring.DrainSingle()

		if lg.shutdownFlag.Load(atomics.Acquire) != 0 {
			lg.ring.DrainSingle()
			lg.shutdownFlag.Store(0, atomics.Relaxed)
			lg.started.Store(0, atomics.Release)
			return
		}

		if lg.closed || lg.rotateFlag.Load(atomics.Acquire) != 0 {
			lg.reopen()
		}

		lg.cond.L.Lock()
		lg.cond.Wait(wakeTimeout)
		lg.cond.L.Unlock()
	}
}

// reopen attempts to recover from a write error, or to service an
// explicit Rotate request, by forcing the sink to roll to a fresh file.
// Every successful (re)open gets one leading blank line; a reopen that
// is recovering from a prior error also gets a recovery record naming
// the drop count and the error that caused it.
func (lg *Logger) reopen() {
	wasClosed := lg.closed
	lg.sinkMu.Lock()
	sink := lg.sink
	filename := lg.filename
	lg.sinkMu.Unlock()

	if err := sink.Rotate(); err != nil {
		lg.setError(fmt.Sprintf("logger: can't open %q: %v", filename, err))
		lg.closed = true
		lg.rotateFlag.Store(0, atomics.Relaxed)
		return
	}

	if _, err := sink.Write([]byte("\n")); err != nil {
		lg.setError(fmt.Sprintf("logger: file write error: %s -- %v", filename, err))
		lg.closed = true
		lg.rotateFlag.Store(0, atomics.Relaxed)
		return
	}

	if wasClosed {
		recovery := fmt.Sprintf("[] Logger recovered from error (lost: %d): %s\n", lg.dropCount, lg.currentError())
		_, _ = sink.Write([]byte(recovery))
		lg.dropCount = 0
	}
	lg.clearError()
	lg.closed = false
	lg.rotateFlag.Store(0, atomics.Relaxed)
}

// logEvent is one queued, already-timestamped message. Invoke is called
// from the consumer goroutine only, so it may touch Logger's
// closed/dropCount fields without synchronization.
type logEvent struct {
	lg    *Logger
	level Level
	ts    time.Time
	msg   string
}

func (e *logEvent) Invoke() bool {
	lg := e.lg
	if lg.closed {
		lg.dropCount++
		return true
	}

	ts := e.ts
	if lg.localTime {
		ts = ts.Local()
	} else {
		ts = ts.UTC()
	}
	line := fmt.Sprintf("[%s %s] %s\n", ts.Format("2006-01-02:15:04:05"), e.level, e.msg)

	lg.sinkMu.Lock()
	sink := lg.sink
	filename := lg.filename
	lg.sinkMu.Unlock()

	if _, err := sink.Write([]byte(line)); err != nil {
		lg.dropCount++
		lg.setError(fmt.Sprintf("logger: file write error: %s -- %v", filename, err))
		lg.closed = true
	}
	return true
}
