package relay

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeTransmitter struct {
	started []string
	stops   int
	failing bool
}

func (f *fakeTransmitter) StartTransmit(payload string) error {
	if f.failing {
		return errors.New("radio unavailable")
	}
	f.started = append(f.started, payload)
	return nil
}

func (f *fakeTransmitter) StopTransmit() error {
	f.stops++
	return nil
}

func (f *fakeTransmitter) last() string {
	if len(f.started) == 0 {
		return ""
	}
	return f.started[len(f.started)-1]
}

func TestBurstStartAndExpiry(t *testing.T) {
	tx := &fakeTransmitter{}
	b := NewBurstScheduler(tx, zap.NewNop())
	now := time.Now()

	b.Start("M1|o|m|2|T|d", 300*time.Millisecond, now)
	if !b.Active() {
		t.Fatal("scheduler should be transmitting")
	}
	if tx.last() != "M1|o|m|2|T|d" {
		t.Errorf("transmitting %q", tx.last())
	}

	b.Service(now.Add(100 * time.Millisecond))
	if !b.Active() {
		t.Error("burst stopped before its window elapsed")
	}

	b.Service(now.Add(300 * time.Millisecond))
	if b.Active() {
		t.Error("burst still active past stop time")
	}
	if tx.stops != 1 {
		t.Errorf("stops = %d, want 1", tx.stops)
	}

	// Idle service must have no side effects.
	b.Service(now.Add(time.Second))
	if tx.stops != 1 {
		t.Errorf("idle Service stopped transmitter again, stops = %d", tx.stops)
	}
}

func TestBurstPreemption(t *testing.T) {
	tx := &fakeTransmitter{}
	b := NewBurstScheduler(tx, zap.NewNop())
	now := time.Now()

	b.Start("first", 300*time.Millisecond, now)
	b.Start("second", 300*time.Millisecond, now.Add(200*time.Millisecond))

	if b.Preemptions() != 1 {
		t.Errorf("preemptions = %d, want 1", b.Preemptions())
	}
	if len(tx.started) != 2 || tx.last() != "second" {
		t.Errorf("started = %v, want the newer payload in flight", tx.started)
	}
	if tx.stops != 0 {
		t.Error("preemption must replace, not stop")
	}

	// The stop time was reset by the newer request: past the first
	// burst's window the resource is still held.
	b.Service(now.Add(400 * time.Millisecond))
	if !b.Active() {
		t.Error("preempting burst ended on the preempted burst's clock")
	}
	b.Service(now.Add(501 * time.Millisecond))
	if b.Active() {
		t.Error("preempting burst did not expire")
	}
}

func TestBurstStartFailure(t *testing.T) {
	tx := &fakeTransmitter{failing: true}
	b := NewBurstScheduler(tx, zap.NewNop())

	b.Start("payload", 300*time.Millisecond, time.Now())
	if b.Active() {
		t.Error("failed start left the scheduler transmitting")
	}
}

func TestBurstStop(t *testing.T) {
	tx := &fakeTransmitter{}
	b := NewBurstScheduler(tx, zap.NewNop())

	b.Stop() // idle stop is a no-op
	if tx.stops != 0 {
		t.Errorf("idle Stop hit the transmitter, stops = %d", tx.stops)
	}

	b.Start("payload", time.Second, time.Now())
	b.Stop()
	if b.Active() || tx.stops != 1 {
		t.Errorf("shutdown stop: active=%v stops=%d", b.Active(), tx.stops)
	}
}
