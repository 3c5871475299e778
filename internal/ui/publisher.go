package ui

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"codeberg.org/mutker/kweeb/internal/logger"
	"codeberg.org/mutker/kweeb/internal/metrics"
)

const (
	dialTimeout  = 250 * time.Millisecond
	writeTimeout = time.Second
)

// Publisher delivers the most recent totals to the menubar. Publish never
// blocks; when the menubar is slow or absent intermediate values are
// replaced by newer ones.
type Publisher struct {
	socket string
	logger logger.Logger
	latest chan Message
	now    func() time.Time
}

func NewPublisher(socket string, log logger.Logger) *Publisher {
	if socket == "" {
		socket = DefaultSocket
	}
	return &Publisher{
		socket: socket,
		logger: log,
		latest: make(chan Message, 1),
		now:    time.Now,
	}
}

// Publish queues c, replacing any value not yet sent.
func (p *Publisher) Publish(c metrics.Counters) {
	msg := Message{Counters: c, UpdatedAt: p.now().UTC()}
	for {
		select {
		case p.latest <- msg:
			return
		default:
		}
		select {
		case <-p.latest:
		default:
		}
	}
}

// Run writes queued values until ctx is cancelled, dialing the socket on
// demand. A value that cannot be delivered is dropped. A value still queued
// when ctx is cancelled gets one last delivery attempt, so the totals from
// a shutdown flush reach the menubar.
func (p *Publisher) Run(ctx context.Context) {
	var s session
	defer s.close()

	for {
		select {
		case <-ctx.Done():
			select {
			case msg := <-p.latest:
				p.deliver(&s, msg)
			default:
			}
			return
		case msg := <-p.latest:
			p.deliver(&s, msg)
		}
	}
}

// session is the current menubar connection, if any.
type session struct {
	conn net.Conn
	enc  *json.Encoder
}

func (s *session) close() {
	if s.conn != nil {
		s.conn.Close()
		s.conn, s.enc = nil, nil
	}
}

// deliver dials without ctx; dialTimeout bounds it, so a final delivery
// still works after cancellation.
func (p *Publisher) deliver(s *session, msg Message) {
	if s.conn == nil {
		dialer := net.Dialer{Timeout: dialTimeout}
		c, err := dialer.Dial("unix", p.socket)
		if err != nil {
			p.logger.Debug().Err(err).Str("socket", p.socket).Msg("Menubar not reachable")
			return
		}
		s.conn, s.enc = c, json.NewEncoder(c)
		p.logger.Debug().Str("socket", p.socket).Msg("Connected to menubar")
	}

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.enc.Encode(msg); err != nil {
		p.logger.Debug().Err(err).Msg("Menubar write failed, reconnecting on next update")
		s.close()
	}
}
