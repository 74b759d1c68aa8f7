package relay

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// EventKind discriminates entries on the relay's event queue.
type EventKind int

const (
	EventPacket EventKind = iota
	EventScanEnded
)

// Event is what the scan layer raises into the relay loop. Packet
// events carry the raw payload and a signal strength reading (0 where
// the transport has none).
type Event struct {
	Kind EventKind
	Raw  []byte
	RSSI int
}

// ScanDriver is the external listening primitive. Scan opens one
// time-boxed listen window; observed packets and the end-of-window
// marker arrive asynchronously on the relay's event queue.
type ScanDriver interface {
	Scan(window time.Duration) error
}

const scanReadBufSize = 64 * 1024

// UDPBroadcaster advertises the current payload by repeating it on a
// UDP broadcast address at a fixed interval until stopped. It
// implements Transmitter.
type UDPBroadcaster struct {
	conn     *net.UDPConn
	interval time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	payload string
	stop    chan struct{}
}

func NewUDPBroadcaster(addr string, port int, interval time.Duration, log *zap.Logger) (*UDPBroadcaster, error) {
	dst := &net.UDPAddr{IP: net.ParseIP(addr), Port: port}
	conn, err := net.DialUDP("udp4", nil, dst)
	if err != nil {
		return nil, err
	}
	return &UDPBroadcaster{conn: conn, interval: interval, log: log}, nil
}

// StartTransmit begins advertising payload. A call while already
// transmitting swaps the payload in place; the repeat loop picks it up
// on its next tick.
func (b *UDPBroadcaster) StartTransmit(payload string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payload = payload
	if b.stop != nil {
		return nil
	}
	b.stop = make(chan struct{})
	go b.advertise(b.stop)
	return nil
}

func (b *UDPBroadcaster) StopTransmit() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stop == nil {
		return nil
	}
	close(b.stop)
	b.stop = nil
	return nil
}

func (b *UDPBroadcaster) Close() error {
	if err := b.StopTransmit(); err != nil {
		return err
	}
	return b.conn.Close()
}

func (b *UDPBroadcaster) advertise(stop chan struct{}) {
	b.send()
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			b.send()
		}
	}
}

func (b *UDPBroadcaster) send() {
	b.mu.Lock()
	payload := b.payload
	b.mu.Unlock()
	if _, err := b.conn.Write([]byte(payload)); err != nil {
		b.log.Error("broadcast write failed", zap.Error(err))
	}
}

// UDPScan listens for broadcast payloads and raises them as events.
// Packets are handed off with a non-blocking send; when the relay loop
// falls behind, packets are dropped and counted rather than blocking
// the read loop. Redundant delivery makes drops recoverable.
type UDPScan struct {
	conn    *net.UDPConn
	events  chan<- Event
	log     *zap.Logger
	dropped atomic.Int64
}

func NewUDPScan(port int, events chan<- Event, log *zap.Logger) (*UDPScan, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: port})
	if err != nil {
		return nil, err
	}
	return &UDPScan{conn: conn, events: events, log: log}, nil
}

// Scan opens one listen window. The window ends at the read deadline,
// at which point an EventScanEnded is raised and the goroutine exits;
// the relay is expected to immediately request the next window.
func (s *UDPScan) Scan(window time.Duration) error {
	if err := s.conn.SetReadDeadline(time.Now().Add(window)); err != nil {
		return err
	}
	go s.readWindow()
	return nil
}

func (s *UDPScan) Close() error {
	return s.conn.Close()
}

func (s *UDPScan) readWindow() {
	buf := make([]byte, scanReadBufSize)
	for {
		n, _, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				s.events <- Event{Kind: EventScanEnded}
				return
			}
			s.log.Error("scan read failed", zap.Error(err))
			s.events <- Event{Kind: EventScanEnded}
			return
		}
		raw := make([]byte, n)
		copy(raw, buf[:n])

		select {
		case s.events <- Event{Kind: EventPacket, Raw: raw}:
		default:
			if d := s.dropped.Add(1); d%100 == 1 {
				s.log.Debug("event queue full, packet dropped", zap.Int64("dropped", d))
			}
		}
	}
}
