// ABOUTME: Rest timer state machine with Idle, Running and Paused states.
// ABOUTME: Counts down once per second and alerts exactly once on natural expiry.
package timer

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/gymlog/internal/clock"
)

// DefaultDuration is used when Start is called with a non-positive duration.
const DefaultDuration = 120 * time.Second

// SimplePresets are the only durations the Simple variant counts down from.
var SimplePresets = []time.Duration{
	60 * time.Second,
	90 * time.Second,
	120 * time.Second,
	180 * time.Second,
}

// State is the rest timer's logical state.
type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Variant selects the feature set of the timer.
type Variant int

const (
	// Full supports pause, resume and extend.
	Full Variant = iota
	// Simple only starts from fixed presets and stops.
	Simple
)

// ParseVariant maps a config string to a Variant. Unknown values map to Full.
func ParseVariant(s string) Variant {
	if s == "simple" {
		return Simple
	}
	return Full
}

// Status is an observable snapshot of the timer.
type Status struct {
	State     State
	Remaining int // whole seconds

	// Expired is set only on the notification for the tick that ran the
	// countdown out. Stop and Skip report Idle without it.
	Expired bool
}

// Active reports whether a break is in progress (running or paused).
func (s Status) Active() bool {
	return s.State != Idle
}

// Alerter renders the completion cue.
type Alerter interface {
	Play() error
}

// Option configures a Timer.
type Option func(*Timer)

// WithScheduler sets the tick source.
func WithScheduler(s clock.Scheduler) Option {
	return func(t *Timer) { t.sched = s }
}

// WithAlerter sets the completion alert.
func WithAlerter(a Alerter) Option {
	return func(t *Timer) { t.alert = a }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(t *Timer) { t.logger = l }
}

// WithDefault sets the duration used by Start(0).
func WithDefault(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.def = d
		}
	}
}

// WithVariant sets the feature variant.
func WithVariant(v Variant) Option {
	return func(t *Timer) { t.variant = v }
}

// Timer is a one-second countdown. Every transition cancels the previous
// schedule before changing state, and ticks from a cancelled schedule are
// dropped by generation, so at most one tick source is ever live.
type Timer struct {
	mu sync.Mutex

	sched   clock.Scheduler
	alert   Alerter
	logger  *log.Logger
	variant Variant
	def     time.Duration

	state     State
	remaining int
	gen       uint64
	stop      func()

	subs   map[int]func(Status)
	nextID int
}

// New creates an idle Timer.
func New(opts ...Option) *Timer {
	t := &Timer{
		sched:  clock.Real{},
		logger: log.New(io.Discard),
		def:    DefaultDuration,
		subs:   make(map[int]func(Status)),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.alert == nil {
		t.alert = silent{}
	}
	return t
}

type silent struct{}

func (silent) Play() error { return nil }

// Variant returns the configured feature variant.
func (t *Timer) Variant() Variant {
	return t.variant
}

// Start begins counting down from d, replacing any countdown in progress.
// A non-positive d uses the default duration.
func (t *Timer) Start(d time.Duration) {
	t.mu.Lock()
	secs := t.seconds(d)
	t.startLocked(secs)
	st := t.statusLocked()
	t.mu.Unlock()

	t.logger.Debug("rest timer started", "seconds", secs)
	t.notify(st)
}

// Pause freezes a running countdown. No-op unless running, or for the Simple variant.
func (t *Timer) Pause() {
	t.mu.Lock()
	if t.variant == Simple || t.state != Running {
		t.mu.Unlock()
		return
	}
	t.cancelLocked()
	t.state = Paused
	st := t.statusLocked()
	t.mu.Unlock()

	t.logger.Debug("rest timer paused", "remaining", st.Remaining)
	t.notify(st)
}

// Resume continues a paused countdown from where it stopped.
func (t *Timer) Resume() {
	t.mu.Lock()
	if t.state != Paused {
		t.mu.Unlock()
		return
	}
	t.startLocked(t.remaining)
	st := t.statusLocked()
	t.mu.Unlock()

	t.logger.Debug("rest timer resumed", "remaining", st.Remaining)
	t.notify(st)
}

// Extend adds d to a running or paused countdown without restarting it.
func (t *Timer) Extend(d time.Duration) {
	secs := ceilSeconds(d)
	t.mu.Lock()
	if t.variant == Simple || t.state == Idle || secs <= 0 {
		t.mu.Unlock()
		return
	}
	t.remaining += secs
	st := t.statusLocked()
	t.mu.Unlock()

	t.notify(st)
}

// Stop cancels the countdown without an alert.
func (t *Timer) Stop() {
	t.mu.Lock()
	wasIdle := t.state == Idle
	t.resetLocked()
	st := t.statusLocked()
	t.mu.Unlock()

	if !wasIdle {
		t.logger.Debug("rest timer stopped")
		t.notify(st)
	}
}

// Skip ends the break early. Same as Stop; never alerts.
func (t *Timer) Skip() {
	t.Stop()
}

// Close cancels any countdown at shutdown.
func (t *Timer) Close() {
	t.mu.Lock()
	t.resetLocked()
	t.mu.Unlock()
}

// Status returns the current snapshot.
func (t *Timer) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusLocked()
}

// Subscribe registers fn to receive every status change and tick.
// fn runs on the ticking goroutine and must not block.
func (t *Timer) Subscribe(fn func(Status)) (unsubscribe func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	id := t.nextID
	t.subs[id] = fn

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, id)
	}
}

func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.state != Running {
		t.mu.Unlock()
		return
	}

	expired := false
	if t.remaining <= 1 {
		t.resetLocked()
		expired = true
	} else {
		t.remaining--
	}
	st := t.statusLocked()
	st.Expired = expired
	t.mu.Unlock()

	if expired {
		t.logger.Info("rest over")
		if err := t.alert.Play(); err != nil {
			t.logger.Warn("could not play completion alert", "err", err)
		}
	}
	t.notify(st)
}

// startLocked must be called with mu held.
func (t *Timer) startLocked(secs int) {
	t.cancelLocked()
	t.state = Running
	t.remaining = secs

	gen := t.gen
	t.stop = t.sched.Every(time.Second, func() { t.tick(gen) })
}

// cancelLocked drops the live schedule and invalidates its pending ticks.
func (t *Timer) cancelLocked() {
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
	t.gen++
}

func (t *Timer) resetLocked() {
	t.cancelLocked()
	t.state = Idle
	t.remaining = 0
}

func (t *Timer) statusLocked() Status {
	return Status{State: t.state, Remaining: t.remaining}
}

func (t *Timer) notify(st Status) {
	t.mu.Lock()
	subs := make([]func(Status), 0, len(t.subs))
	for _, fn := range t.subs {
		subs = append(subs, fn)
	}
	t.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

func (t *Timer) seconds(d time.Duration) int {
	if d <= 0 {
		d = t.def
	}
	if t.variant == Simple {
		d = nearestPreset(d)
	}
	return ceilSeconds(d)
}

func nearestPreset(d time.Duration) time.Duration {
	best := SimplePresets[0]
	for _, p := range SimplePresets[1:] {
		if absDuration(p-d) <= absDuration(best-d) {
			best = p
		}
	}
	return best
}

func ceilSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
