package dataType

import (
	"bytes"
	"fmt"
	"strings"
)

// FrameVersion is the wire format discriminator. There is exactly one
// version; anything else is rejected at decode, not best-effort parsed.
const FrameVersion = "M1"

const framePrefix = FrameVersion + "|"

// Frame types carried in the fifth field. Other values are reserved:
// they decode and propagate, but this node never originates them.
const (
	FrameTypeTelemetry = "T"
	FrameTypeReport    = "R"
)

// Frame is the unit of propagation. A Frame only comes into existence
// through DecodeFrame or an originator building one field by field;
// (Origin, MessageID) identifies the logical message for its whole
// lifetime, independent of TTL.
type Frame struct {
	Origin    string
	MessageID string
	TTL       int
	Type      string
	Data      string
}

// Key returns the dedup identity of the frame.
func (f *Frame) Key() string {
	return f.Origin + ":" + f.MessageID
}

// EncodeFrame produces the canonical pipe-delimited text. Data is the
// final field and is never split again, so it may contain anything.
func EncodeFrame(f *Frame) string {
	return fmt.Sprintf("%s|%s|%s|%d|%s|%s", FrameVersion, f.Origin, f.MessageID, f.TTL, f.Type, f.Data)
}

// DecodeFrame parses wire text into a Frame. The second return is false
// for anything that is not a structurally valid frame: wrong version tag,
// wrong field count, or a TTL that is not a bare non-negative decimal.
// A false result is evidence of channel noise, not a fault.
func DecodeFrame(s string) (*Frame, bool) {
	if !strings.HasPrefix(s, framePrefix) {
		return nil, false
	}
	parts := strings.SplitN(s, "|", 6)
	if len(parts) != 6 {
		return nil, false
	}
	ttl, ok := parseTTL(parts[3])
	if !ok {
		return nil, false
	}
	if parts[4] == "" {
		return nil, false
	}
	return &Frame{
		Origin:    parts[1],
		MessageID: parts[2],
		TTL:       ttl,
		Type:      parts[4],
		Data:      parts[5],
	}, true
}

// parseTTL accepts ASCII decimal digits only. strconv.Atoi would also
// take "+3" and "-0", which the wire format forbids.
func parseTTL(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
		if n > 1<<20 {
			return 0, false
		}
	}
	return n, true
}

// ExtractFrame locates frame text embedded in a raw broadcast payload.
// The frame may sit behind transport framing bytes and may be followed
// by padding; everything from the version tag up to the first NUL is
// taken as the candidate text.
func ExtractFrame(raw []byte) (string, bool) {
	idx := bytes.Index(raw, []byte(framePrefix))
	if idx == -1 {
		return "", false
	}
	s := raw[idx:]
	if nul := bytes.IndexByte(s, 0); nul != -1 {
		s = s[:nul]
	}
	return string(s), true
}

// TruncateName caps encoded frame text to a transport payload limit.
// With Data last, a sane limit only ever drops Data tail bytes and the
// truncated text still decodes.
func TruncateName(frame string, max int) string {
	if max <= 0 || len(frame) <= max {
		return frame
	}
	return frame[:max]
}
