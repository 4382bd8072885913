package avatar

import (
	"sync/atomic"
	"time"

	"github.com/hypebeast/go-osc/osc"

	"github.com/avosc/avosc/internal/log"
)

// Consumers cap OSC bundles around this size; longer ticks are split.
const maxBundleMessages = 30

// Client streams the outbound parameter state over UDP. Sends are fire
// and forget: a dropped datagram heals on the next tick's re-send.
type Client struct {
	osc  *osc.Client
	sent atomic.Uint64
	errs atomic.Uint64
}

// NewClient builds a sender for the consumer endpoint.
func NewClient(host string, port int) *Client {
	return &Client{osc: osc.NewClient(host, port)}
}

// Send ships one tick's messages, bundled in chunks. It returns the
// number of messages handed to the transport.
func (c *Client) Send(msgs []*osc.Message) int {
	sent := 0
	for len(msgs) > 0 {
		n := len(msgs)
		if n > maxBundleMessages {
			n = maxBundleMessages
		}
		bundle := osc.NewBundle(time.Now())
		bundle.Messages = append(bundle.Messages, msgs[:n]...)
		msgs = msgs[n:]

		if err := c.osc.Send(bundle); err != nil {
			if e := c.errs.Add(1); e == 1 || e%100 == 0 {
				log.Warn("send failed", "errors", e, "error", err)
			}
			continue
		}
		sent += n
	}
	c.sent.Add(uint64(sent))
	return sent
}

// Sent returns the total messages sent, for the status surfaces.
func (c *Client) Sent() uint64 { return c.sent.Load() }
