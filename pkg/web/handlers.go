package web

import (
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/avosc/avosc/pkg/hub"
)

// handleIndex lists the dashboard surface for curl users.
func (s *Server) handleIndex(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name": "avosc",
		"endpoints": []string{
			"GET /api/status",
			"GET /api/params",
			"POST /api/recalibrate",
			"WS  /ws/status",
		},
	})
}

// handleStatus returns the composed pipeline snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	if s.deps.Status == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "status not wired",
		})
	}
	return c.JSON(s.deps.Status())
}

// ParamEntry is one parameter row in the /api/params dump.
type ParamEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ParamsResponse is the outbound store plus the consumer-reported
// feedback, both sorted for stable output.
type ParamsResponse struct {
	Outbound []ParamEntry `json:"outbound"`
	Feedback []ParamEntry `json:"feedback"`
}

func (s *Server) handleParams(c *fiber.Ctx) error {
	resp := ParamsResponse{
		Outbound: []ParamEntry{},
		Feedback: []ParamEntry{},
	}
	if s.deps.Store != nil {
		for addr, v := range s.deps.Store.Snapshot() {
			resp.Outbound = append(resp.Outbound, ParamEntry{Name: addr, Value: v.String()})
		}
	}
	if s.deps.Feedback != nil {
		for name, v := range s.deps.Feedback.Snapshot() {
			resp.Feedback = append(resp.Feedback, ParamEntry{Name: name, Value: v.String()})
		}
	}
	sort.Slice(resp.Outbound, func(i, j int) bool { return resp.Outbound[i].Name < resp.Outbound[j].Name })
	sort.Slice(resp.Feedback, func(i, j int) bool { return resp.Feedback[i].Name < resp.Feedback[j].Name })
	return c.JSON(resp)
}

// handleRecalibrate restarts head calibration.
func (s *Server) handleRecalibrate(c *fiber.Ctx) error {
	if s.deps.Recalibrate == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "recalibrate not wired",
		})
	}
	s.deps.Recalibrate()
	return c.JSON(fiber.Map{"status": "calibrating"})
}

// handleStatusWS streams status snapshots over websocket.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	client := hub.NewClient(s.statusHub, c)
	client.Run()
}
