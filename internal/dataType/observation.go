package dataType

// Observation records one locally delivered message identity that
// qualifies toward the event-triggered report: not self-originated and
// not itself a report.
type Observation struct {
	Origin    string
	MessageID string
}

// ObservationLog buffers qualifying deliveries up to a fixed threshold.
// Owned by the relay loop, no locking.
type ObservationLog struct {
	threshold int
	entries   []Observation
}

func NewObservationLog(threshold int) *ObservationLog {
	if threshold < 1 {
		threshold = 1
	}
	return &ObservationLog{
		threshold: threshold,
		entries:   make([]Observation, 0, threshold),
	}
}

// Append records one observation and reports whether the log just
// reached its threshold. The caller is expected to Drain on true.
func (ol *ObservationLog) Append(origin, messageID string) bool {
	ol.entries = append(ol.entries, Observation{Origin: origin, MessageID: messageID})
	return len(ol.entries) >= ol.threshold
}

// Drain returns the buffered observations and clears the log
// unconditionally, whether or not the caller's report goes out.
func (ol *ObservationLog) Drain() []Observation {
	out := ol.entries
	ol.entries = make([]Observation, 0, ol.threshold)
	return out
}

func (ol *ObservationLog) Len() int {
	return len(ol.entries)
}
