// ABOUTME: Tests for the rest timer state machine.
// ABOUTME: Drives the countdown with a fake scheduler and counts alerts.
package timer

import (
	"errors"
	"testing"
	"time"

	"github.com/harperreed/gymlog/internal/clock"
)

type countingAlert struct {
	plays int
	err   error
}

func (a *countingAlert) Play() error {
	a.plays++
	return a.err
}

func newTestTimer(t *testing.T, opts ...Option) (*Timer, *clock.Fake, *countingAlert) {
	t.Helper()
	fake := clock.NewFake(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	alert := &countingAlert{}
	base := []Option{WithScheduler(fake), WithAlerter(alert)}
	tm := New(append(base, opts...)...)
	t.Cleanup(tm.Close)
	return tm, fake, alert
}

func TestTimerCountsDownAndAlertsOnce(t *testing.T) {
	tm, fake, alert := newTestTimer(t)

	tm.Start(10 * time.Second)
	if st := tm.Status(); st.State != Running || st.Remaining != 10 {
		t.Fatalf("after Start: %+v, want Running/10", st)
	}

	fake.Advance(9 * time.Second)
	if st := tm.Status(); st.Remaining != 1 || alert.plays != 0 {
		t.Fatalf("after 9 ticks: %+v plays=%d, want remaining 1 and no alert", st, alert.plays)
	}

	fake.Tick()
	st := tm.Status()
	if st.State != Idle || st.Remaining != 0 {
		t.Errorf("after 10 ticks: %+v, want Idle/0", st)
	}
	if alert.plays != 1 {
		t.Errorf("plays = %d, want 1", alert.plays)
	}

	fake.Advance(5 * time.Second)
	if alert.plays != 1 {
		t.Errorf("alert fired again after expiry: plays = %d", alert.plays)
	}
	if fake.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", fake.Pending())
	}
}

func TestTimerDefaultDuration(t *testing.T) {
	tm, _, _ := newTestTimer(t)

	tm.Start(0)
	if got := tm.Status().Remaining; got != 120 {
		t.Errorf("Remaining = %d, want 120", got)
	}

	tm2, _, _ := newTestTimer(t, WithDefault(45*time.Second))
	tm2.Start(-time.Second)
	if got := tm2.Status().Remaining; got != 45 {
		t.Errorf("Remaining = %d, want 45", got)
	}
}

func TestTimerPauseResume(t *testing.T) {
	tm, fake, alert := newTestTimer(t)

	tm.Start(10 * time.Second)
	fake.Advance(4 * time.Second)
	tm.Pause()

	if st := tm.Status(); st.State != Paused || st.Remaining != 6 {
		t.Fatalf("after Pause: %+v, want Paused/6", st)
	}
	if !tm.Status().Active() {
		t.Error("paused timer should count as active")
	}

	fake.Advance(30 * time.Second)
	if got := tm.Status().Remaining; got != 6 {
		t.Errorf("Remaining moved while paused: %d", got)
	}

	tm.Resume()
	if st := tm.Status(); st.State != Running || st.Remaining != 6 {
		t.Fatalf("after Resume: %+v, want Running/6", st)
	}

	fake.Advance(6 * time.Second)
	if st := tm.Status(); st.State != Idle {
		t.Errorf("State = %v, want Idle", st.State)
	}
	if alert.plays != 1 {
		t.Errorf("plays = %d, want 1", alert.plays)
	}
}

func TestTimerStopAndSkipNeverAlert(t *testing.T) {
	tm, fake, alert := newTestTimer(t)

	tm.Start(5 * time.Second)
	fake.Advance(2 * time.Second)
	tm.Stop()

	if st := tm.Status(); st.State != Idle || st.Remaining != 0 {
		t.Errorf("after Stop: %+v, want Idle/0", st)
	}

	tm.Start(5 * time.Second)
	tm.Pause()
	tm.Skip()
	fake.Advance(10 * time.Second)

	if alert.plays != 0 {
		t.Errorf("plays = %d, want 0", alert.plays)
	}
	if tm.Status().Active() {
		t.Error("expected timer to be inactive")
	}
}

func TestTimerRestartWhileRunning(t *testing.T) {
	tm, fake, alert := newTestTimer(t)

	tm.Start(5 * time.Second)
	fake.Advance(3 * time.Second)
	tm.Start(5 * time.Second)

	if got := tm.Status().Remaining; got != 5 {
		t.Fatalf("Remaining = %d, want 5", got)
	}
	if fake.Pending() != 1 {
		t.Errorf("Pending() = %d, want exactly one live schedule", fake.Pending())
	}

	fake.Advance(4 * time.Second)
	if got := tm.Status().Remaining; got != 1 {
		t.Errorf("Remaining = %d, want 1 (one decrement per second)", got)
	}
	fake.Tick()
	if alert.plays != 1 {
		t.Errorf("plays = %d, want 1", alert.plays)
	}
}

func TestTimerIgnoresStaleTicks(t *testing.T) {
	tm, _, alert := newTestTimer(t)

	tm.Start(3 * time.Second)
	tm.mu.Lock()
	stale := tm.gen
	tm.mu.Unlock()

	tm.Stop()
	tm.Start(3 * time.Second)
	tm.tick(stale)
	tm.tick(stale)
	tm.tick(stale)

	if got := tm.Status().Remaining; got != 3 {
		t.Errorf("Remaining = %d, want 3", got)
	}
	if alert.plays != 0 {
		t.Errorf("plays = %d, want 0", alert.plays)
	}
}

func TestTimerExtend(t *testing.T) {
	tm, fake, _ := newTestTimer(t)

	tm.Extend(30 * time.Second)
	if tm.Status().Active() {
		t.Fatal("Extend should not start an idle timer")
	}

	tm.Start(10 * time.Second)
	fake.Advance(2 * time.Second)
	tm.Extend(30 * time.Second)

	if got := tm.Status().Remaining; got != 38 {
		t.Errorf("Remaining = %d, want 38", got)
	}
}

func TestTimerSimpleVariant(t *testing.T) {
	tm, fake, alert := newTestTimer(t, WithVariant(Simple))

	tests := []struct {
		in   time.Duration
		want int
	}{
		{0, 120},
		{45 * time.Second, 60},
		{75 * time.Second, 90},
		{100 * time.Second, 90},
		{150 * time.Second, 180},
		{10 * time.Minute, 180},
	}
	for _, tt := range tests {
		tm.Start(tt.in)
		if got := tm.Status().Remaining; got != tt.want {
			t.Errorf("Start(%v): Remaining = %d, want %d", tt.in, got, tt.want)
		}
	}

	tm.Start(60 * time.Second)
	tm.Pause()
	tm.Extend(30 * time.Second)
	if st := tm.Status(); st.State != Running || st.Remaining != 60 {
		t.Errorf("simple timer accepted pause/extend: %+v", st)
	}

	fake.Advance(60 * time.Second)
	if alert.plays != 1 {
		t.Errorf("plays = %d, want 1", alert.plays)
	}
}

func TestTimerAlertErrorIgnored(t *testing.T) {
	tm, fake, alert := newTestTimer(t)
	alert.err = errors.New("no audio device")

	tm.Start(2 * time.Second)
	fake.Advance(2 * time.Second)

	if st := tm.Status(); st.State != Idle || st.Remaining != 0 {
		t.Errorf("after failed alert: %+v, want Idle/0", st)
	}
	if alert.plays != 1 {
		t.Errorf("plays = %d, want 1", alert.plays)
	}
}

func TestTimerSubscribe(t *testing.T) {
	tm, fake, _ := newTestTimer(t)

	var seen []Status
	unsubscribe := tm.Subscribe(func(st Status) { seen = append(seen, st) })

	tm.Start(3 * time.Second)
	fake.Advance(3 * time.Second)

	want := []Status{
		{State: Running, Remaining: 3},
		{State: Running, Remaining: 2},
		{State: Running, Remaining: 1},
		{State: Idle, Remaining: 0},
	}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %+v, want %+v", i, seen[i], want[i])
		}
	}

	unsubscribe()
	tm.Start(3 * time.Second)
	if len(seen) != len(want) {
		t.Errorf("received status after unsubscribe: %v", seen[len(want):])
	}
}

func TestStateString(t *testing.T) {
	if Idle.String() != "idle" || Running.String() != "running" || Paused.String() != "paused" {
		t.Error("unexpected State strings")
	}
	if ParseVariant("simple") != Simple || ParseVariant("full") != Full || ParseVariant("") != Full {
		t.Error("unexpected ParseVariant results")
	}
}

func TestTimerExpiredOnlyOnNaturalEnd(t *testing.T) {
	tm, fake, _ := newTestTimer(t)

	var seen []Status
	unsubscribe := tm.Subscribe(func(st Status) { seen = append(seen, st) })
	defer unsubscribe()

	tm.Start(2 * time.Second)
	tm.Skip()
	last := seen[len(seen)-1]
	if last.State != Idle || last.Expired {
		t.Errorf("after Skip: %+v, want Idle without Expired", last)
	}

	tm.Start(2 * time.Second)
	tm.Stop()
	if last := seen[len(seen)-1]; last.Expired {
		t.Errorf("after Stop: %+v, want no Expired", last)
	}

	seen = nil
	tm.Start(2 * time.Second)
	fake.Advance(2 * time.Second)

	expired := 0
	for _, st := range seen {
		if st.Expired {
			expired++
			if st.State != Idle || st.Remaining != 0 {
				t.Errorf("expired status = %+v, want Idle/0", st)
			}
		}
	}
	if expired != 1 {
		t.Errorf("Expired notifications = %d, want 1", expired)
	}
	if tm.Status().Expired {
		t.Error("Status() should not report Expired outside the expiry notification")
	}
}
