package relay

import (
	"time"

	"go.uber.org/zap"
)

// Transmitter is the external broadcast primitive: fire-and-forget
// start/stop of payload advertisement. Neither call may block the
// relay loop.
type Transmitter interface {
	StartTransmit(payload string) error
	StopTransmit() error
}

// BurstScheduler models the single shared transmit resource. At most
// one payload is on the air; a new request while busy preempts the
// in-flight one, which loses its remaining burst time. That is a
// documented tradeoff of the protocol, not queued or retried.
type BurstScheduler struct {
	tx  Transmitter
	log *zap.Logger

	active      bool
	payload     string
	stopAt      time.Time
	preemptions int64
}

func NewBurstScheduler(tx Transmitter, log *zap.Logger) *BurstScheduler {
	return &BurstScheduler{tx: tx, log: log}
}

// Start begins (or takes over) a time-boxed transmission of payload.
func (b *BurstScheduler) Start(payload string, duration time.Duration, now time.Time) {
	if b.active {
		b.preemptions++
		b.log.Debug("burst preempted",
			zap.String("dropped", b.payload),
			zap.String("payload", payload),
			zap.Int64("preemptions", b.preemptions),
		)
	}
	if err := b.tx.StartTransmit(payload); err != nil {
		b.log.Error("start transmit failed", zap.Error(err))
		b.active = false
		return
	}
	b.active = true
	b.payload = payload
	b.stopAt = now.Add(duration)
}

// Service must run on every scheduler tick. It stops the transmitter
// once the burst window has elapsed and does nothing otherwise.
func (b *BurstScheduler) Service(now time.Time) {
	if !b.active || now.Before(b.stopAt) {
		return
	}
	if err := b.tx.StopTransmit(); err != nil {
		b.log.Error("stop transmit failed", zap.Error(err))
	}
	b.active = false
	b.payload = ""
}

// Stop ends any in-flight burst early. Only used on shutdown; bursts
// cannot otherwise be cancelled, only preempted or expired.
func (b *BurstScheduler) Stop() {
	if !b.active {
		return
	}
	if err := b.tx.StopTransmit(); err != nil {
		b.log.Error("stop transmit failed", zap.Error(err))
	}
	b.active = false
	b.payload = ""
}

func (b *BurstScheduler) Active() bool {
	return b.active
}

// Preemptions reports how many in-flight bursts were replaced.
func (b *BurstScheduler) Preemptions() int64 {
	return b.preemptions
}
