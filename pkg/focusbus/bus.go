// Package focusbus carries deep-link focus requests between views over a
// mangos pub/sub pair. The alerting view publishes; the explorer
// subscribes. Delivery is at-least-once: the session controller enforces
// apply-once by request id.
package focusbus

import (
	"encoding/json"
	"fmt"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"
	"go.nanomsg.org/mangos/v3/protocol/sub"

	// Register transports
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/google/uuid"

	"github.com/dmorval/linkscope/pkg/logging"
	"github.com/dmorval/linkscope/pkg/session"
)

const topic = "focus"

// Publisher sends focus requests to any listening explorer
type Publisher struct {
	sock   mangos.Socket
	logger logging.Logger
}

// NewPublisher listens on the given address (e.g. "tcp://127.0.0.1:40895")
func NewPublisher(addr string, logger logging.Logger) (*Publisher, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	sock, err := pub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("create pub socket: %w", err)
	}
	if err := sock.Listen(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return &Publisher{sock: sock, logger: logger.With(logging.Component("focusbus"))}, nil
}

// Publish sends one focus request. A missing ID is filled in so the
// receiver can deduplicate and the caller can report it back.
func (p *Publisher) Publish(req *session.FocusRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode focus request: %w", err)
	}
	msg := append([]byte(topic+"|"), body...)
	if err := p.sock.Send(msg); err != nil {
		return fmt.Errorf("send focus request: %w", err)
	}
	p.logger.Debug("focus request published", logging.FocusID(req.ID))
	return nil
}

// Close releases the socket
func (p *Publisher) Close() error {
	return p.sock.Close()
}

// Subscriber receives focus requests for the explorer
type Subscriber struct {
	sock   mangos.Socket
	logger logging.Logger
}

// NewSubscriber dials the publisher's address and subscribes to the focus
// topic
func NewSubscriber(addr string, logger logging.Logger) (*Subscriber, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	sock, err := sub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("create sub socket: %w", err)
	}
	if err := sock.Dial(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	if err := sock.SetOption(mangos.OptionSubscribe, []byte(topic+"|")); err != nil {
		sock.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return &Subscriber{sock: sock, logger: logger.With(logging.Component("focusbus"))}, nil
}

// Next blocks up to the timeout for the next focus request.
// A timeout returns (nil, nil) so callers can poll between frames.
func (s *Subscriber) Next(timeout time.Duration) (*session.FocusRequest, error) {
	if err := s.sock.SetOption(mangos.OptionRecvDeadline, timeout); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	raw, err := s.sock.Recv()
	if err != nil {
		if err == mangos.ErrRecvTimeout {
			return nil, nil
		}
		return nil, fmt.Errorf("recv: %w", err)
	}

	body := raw[len(topic)+1:]
	var req session.FocusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.logger.Warn("malformed focus request dropped", logging.Error(err))
		return nil, nil
	}
	s.logger.Debug("focus request received", logging.FocusID(req.ID))
	return &req, nil
}

// Close releases the socket
func (s *Subscriber) Close() error {
	return s.sock.Close()
}
