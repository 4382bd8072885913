package avatar

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hypebeast/go-osc/osc"

	"github.com/avosc/avosc/internal/log"
)

// Server receives the consumer's feedback stream: reported parameter
// values and avatar switches. Decoded state lands in a Feedback the
// tick loop reads.
type Server struct {
	port     int
	feedback *Feedback
	onChange func(id string)
	received atomic.Uint64
}

// NewServer builds the inbound endpoint.
func NewServer(port int, fb *Feedback) *Server {
	return &Server{port: port, feedback: fb}
}

// OnAvatarChange registers a hook called from the receive goroutine
// whenever the consumer switches avatars. Set it before Run.
func (s *Server) OnAvatarChange(fn func(id string)) { s.onChange = fn }

// Received returns the total messages decoded, for the status surfaces.
func (s *Server) Received() uint64 { return s.received.Load() }

// Run serves until ctx is canceled. The first bind failing is fatal;
// later failures rebind with a flat delay, so a port stolen mid-run
// does not kill the process.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	first := true
	for {
		conn, err := net.ListenPacket("udp", addr)
		if err != nil {
			if first {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			log.Warn("feedback rebind failed", "addr", addr, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
				continue
			}
		}
		first = false

		err = s.serve(ctx, conn, addr)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("feedback server stopped, rebinding", "error", err)
	}
}

func (s *Server) serve(ctx context.Context, conn net.PacketConn, addr string) error {
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	log.Info("feedback server listening", "addr", addr)
	server := &osc.Server{Addr: addr, Dispatcher: s}
	return server.Serve(conn)
}

// Dispatch decodes one inbound packet.
func (s *Server) Dispatch(packet osc.Packet) {
	switch p := packet.(type) {
	case *osc.Message:
		s.handle(p)
	case *osc.Bundle:
		for _, m := range p.Messages {
			s.handle(m)
		}
		for _, sub := range p.Bundles {
			s.Dispatch(sub)
		}
	}
}

func (s *Server) handle(msg *osc.Message) {
	if msg == nil || len(msg.Arguments) == 0 {
		return
	}
	s.received.Add(1)

	if msg.Address == AddrChange {
		if id, ok := msg.Arguments[0].(string); ok {
			log.Info("avatar changed", "avatar", id)
			s.feedback.SetAvatar(id)
			if s.onChange != nil {
				s.onChange(id)
			}
		}
		return
	}

	name := strings.TrimPrefix(msg.Address, ParamPrefix)
	if name == msg.Address {
		return
	}
	if v, ok := decodeArg(msg.Arguments[0]); ok {
		s.feedback.Update(name, v)
	}
}

func decodeArg(arg interface{}) (Value, bool) {
	switch x := arg.(type) {
	case bool:
		return Bool(x), true
	case int32:
		return Int(x), true
	case int64:
		return Int(int32(x)), true
	case float32:
		return Float(x), true
	case float64:
		return Float(float32(x)), true
	}
	return Value{}, false
}
