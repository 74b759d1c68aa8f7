package relay

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mesh_relay/internal/config"
	"mesh_relay/internal/dataType"
	"mesh_relay/internal/utils"
)

// SensorFunc supplies the telemetry value for self-originated frames.
type SensorFunc func() float64

// DeliverFunc receives each locally delivered frame exactly once per
// message identity. It is an output collaborator: never consumed for
// control flow.
type DeliverFunc func(f *dataType.Frame, rssi int)

// Relay is the flood relay engine. It owns the dedup list, the
// observation log and the origination schedule, and it is the only
// goroutine that touches them: the scan layer feeds the event queue,
// Run drains it.
type Relay struct {
	cfg    *config.MainConfig
	log    *zap.Logger
	nodeID string

	seen  *dataType.SeenList
	obs   *dataType.ObservationLog
	burst *BurstScheduler
	scan  ScanDriver

	sensor    SensorFunc
	OnDeliver DeliverFunc

	events     chan Event
	nextInject time.Time
}

func New(cfg *config.MainConfig, log *zap.Logger, tx Transmitter, scan ScanDriver, sensor SensorFunc) *Relay {
	nodeID := cfg.NodeID
	if nodeID == "" {
		nodeID = utils.DeriveNodeID()
	}
	return &Relay{
		cfg:    cfg,
		log:    log,
		nodeID: nodeID,
		seen:   dataType.NewSeenList(cfg.SeenMax),
		obs:    dataType.NewObservationLog(cfg.ReportThreshold),
		burst:  NewBurstScheduler(tx, log),
		scan:   scan,
		sensor: sensor,
		events: make(chan Event, cfg.EventBuffer),
	}
}

// NodeID returns the stable origin token of this node.
func (r *Relay) NodeID() string {
	return r.nodeID
}

// Events is the queue the scan layer raises observations into.
func (r *Relay) Events() chan<- Event {
	return r.events
}

// SetScanDriver wires the listening collaborator. The driver needs the
// event queue from Events, so it is built after the relay and attached
// here before Run.
func (r *Relay) SetScanDriver(scan ScanDriver) {
	r.scan = scan
}

// Run is the cooperative polling loop: each tick services the burst
// expiry and the origination clock, and pending scan events are
// drained in between. It returns when ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	r.log.Info("relay started", zap.String("node_id", r.nodeID))
	r.scheduleInject(time.Now())

	if r.scan != nil {
		if err := r.scan.Scan(r.scanWindow()); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(time.Duration(r.cfg.TickMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.burst.Stop()
			r.log.Info("relay stopped")
			return ctx.Err()
		case ev := <-r.events:
			r.handleEvent(ev)
		case now := <-ticker.C:
			r.burst.Service(now)
			r.serviceInject(now)
		}
	}
}

func (r *Relay) handleEvent(ev Event) {
	switch ev.Kind {
	case EventPacket:
		r.HandlePacket(ev.Raw, ev.RSSI, time.Now())
	case EventScanEnded:
		// Gaps in listening are missed forwarding opportunities;
		// reissue the window before doing anything else.
		if r.scan != nil {
			if err := r.scan.Scan(r.scanWindow()); err != nil {
				r.log.Error("scan restart failed", zap.Error(err))
			}
		}
	}
}

// HandlePacket runs the receive pipeline for one physically observed
// payload: extract, decode, dedup, deliver, count, forward.
func (r *Relay) HandlePacket(raw []byte, rssi int, now time.Time) {
	text, ok := dataType.ExtractFrame(raw)
	if !ok {
		return
	}
	f, ok := dataType.DecodeFrame(text)
	if !ok {
		// Noise or a foreign broadcast sharing the channel.
		r.log.Debug("undecodable frame", zap.String("text", text))
		return
	}

	if r.seen.CheckAdd(f.Key()) {
		r.log.Debug("duplicate suppressed", zap.String("key", f.Key()))
		return
	}

	r.log.Info("RX NEW",
		zap.Int("rssi", rssi),
		zap.String("orig", f.Origin),
		zap.String("msgid", f.MessageID),
		zap.Int("ttl", f.TTL),
		zap.String("type", f.Type),
		zap.String("data", f.Data),
	)
	if r.OnDeliver != nil {
		r.OnDeliver(f, rssi)
	}

	if f.Type == dataType.FrameTypeReport || f.Origin == r.nodeID {
		return
	}

	if r.obs.Append(f.Origin, f.MessageID) {
		r.emitReport(now)
	}

	r.forward(f, now)
}

// forward retransmits with the hop budget reduced by exactly one.
// A frame received with TTL 0 dies here.
func (r *Relay) forward(f *dataType.Frame, now time.Time) {
	if f.TTL <= 0 {
		return
	}
	fwd := *f
	fwd.TTL = f.TTL - 1
	payload := dataType.TruncateName(dataType.EncodeFrame(&fwd), r.cfg.AdvNameMax)
	r.burst.Start(payload, r.burstDuration(), now)
	r.log.Info("FWD", zap.Int("ttl", fwd.TTL), zap.String("frame", payload))
}

func (r *Relay) burstDuration() time.Duration {
	return time.Duration(r.cfg.AdvBurstMs) * time.Millisecond
}

func (r *Relay) scanWindow() time.Duration {
	return time.Duration(r.cfg.ScanWindowMs) * time.Millisecond
}
