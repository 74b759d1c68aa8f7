package relay

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"mesh_relay/internal/dataType"
	"mesh_relay/internal/utils"
)

// scheduleInject recomputes the next self-origination time:
// period plus a uniform jitter so co-located nodes drift apart.
func (r *Relay) scheduleInject(now time.Time) {
	jitter := rand.Intn(r.cfg.InjectJitterS + 1)
	r.nextInject = now.Add(time.Duration(r.cfg.InjectPeriodS+jitter) * time.Second)
}

func (r *Relay) serviceInject(now time.Time) {
	if now.Before(r.nextInject) {
		return
	}
	r.inject(now)
}

// inject originates one telemetry frame. The frame is recorded as seen
// before it is transmitted, so a neighbor bouncing it back is dropped
// as a duplicate rather than re-delivered or re-forwarded.
func (r *Relay) inject(now time.Time) {
	var value float64
	if r.sensor != nil {
		value = r.sensor()
	}

	f := &dataType.Frame{
		Origin:    r.nodeID,
		MessageID: utils.NewMessageID(),
		TTL:       r.cfg.DefaultTTL,
		Type:      dataType.FrameTypeTelemetry,
		Data:      fmt.Sprintf("%.2f", value),
	}
	r.seen.CheckAdd(f.Key())

	payload := dataType.TruncateName(dataType.EncodeFrame(f), r.cfg.AdvNameMax)
	r.burst.Start(payload, r.burstDuration(), now)
	r.log.Info("INJECT", zap.String("frame", payload))

	r.scheduleInject(now)
}

// emitReport fires the event-triggered response: the drained
// observations go to the output sink, then a report frame goes on the
// air with TTL 0 so it dies at every receiver regardless of the
// type-based forwarding exclusion. One-shot: the periodic origination
// schedule is left untouched.
func (r *Relay) emitReport(now time.Time) {
	entries := r.obs.Drain()

	origins := make([]string, 0, len(entries))
	for _, e := range entries {
		origins = append(origins, e.Origin)
		r.log.Info("OBSERVED",
			zap.String("orig", e.Origin),
			zap.String("msgid", e.MessageID),
		)
	}

	f := &dataType.Frame{
		Origin:    r.nodeID,
		MessageID: utils.NewMessageID(),
		TTL:       0,
		Type:      dataType.FrameTypeReport,
		Data:      fmt.Sprintf("%d:%s", len(entries), strings.Join(origins, ",")),
	}
	r.seen.CheckAdd(f.Key())

	payload := dataType.TruncateName(dataType.EncodeFrame(f), r.cfg.AdvNameMax)
	r.burst.Start(payload, r.burstDuration(), now)
	r.log.Info("REPORT", zap.String("frame", payload))
}
