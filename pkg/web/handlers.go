package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/squatcam/pkg/session"
)

// statusResponse is the GET /api/status body.
type statusResponse struct {
	Running    bool            `json:"running"`
	SessionID  string          `json:"session_id"`
	Count      int             `json:"count"`
	LastStatus string          `json:"last_status"`
	Stats      session.Summary `json:"stats"`
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	if s.sess == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no session configured",
		})
	}

	return c.JSON(statusResponse{
		Running:    s.sess.Running(),
		SessionID:  s.sess.ID(),
		Count:      s.sess.Count(),
		LastStatus: s.sess.LastStatus(),
		Stats:      s.sess.Summary(),
	})
}

func (s *Server) handleStart(c *fiber.Ctx) error {
	if s.sess == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no session configured",
		})
	}

	if err := s.sess.Start(); err != nil {
		if errors.Is(err, session.ErrAlreadyRunning) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"session_id": s.sess.ID()})
}

func (s *Server) handleStop(c *fiber.Ctx) error {
	if s.sess == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no session configured",
		})
	}

	s.sess.Stop()
	return c.JSON(fiber.Map{
		"count": s.sess.Count(),
		"stats": s.sess.Summary(),
	})
}
