package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/creatorcore/contextcore/pkg/artifact"
	"github.com/creatorcore/contextcore/pkg/engine"
	"github.com/creatorcore/contextcore/pkg/feedback"
	"github.com/creatorcore/contextcore/pkg/storage"
)

// ErrorResponse is the JSON body returned for all error statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FeedbackRequest is the body of POST /v1/feedback.
type FeedbackRequest struct {
	ID       string `json:"id"`
	Feedback string `json:"feedback"`

	// Mode optionally overrides the configured feedback mode for this
	// request ("delta" or "keyword").
	Mode string `json:"mode,omitempty"`
}

// HistoryResponse is the body of GET /v1/history.
type HistoryResponse struct {
	Count     int                  `json:"count"`
	Artifacts []*artifact.Artifact `json:"artifacts"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleGenerate runs one generation request through the engine.
func (s *Server) handleGenerate(c *fiber.Ctx) error {
	var req engine.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	result, err := s.engine.Generate(c.Context(), req)
	if err != nil {
		return s.errorStatus(c, err)
	}

	return c.JSON(result)
}

// handleFeedback applies one feedback event to a stored artifact.
func (s *Server) handleFeedback(c *fiber.Ctx) error {
	var req FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	result, err := s.engine.Feedback(c.Context(), req.ID, req.Feedback, req.Mode)
	if err != nil {
		return s.errorStatus(c, err)
	}

	return c.JSON(result)
}

// handleHistory lists stored artifacts most-recent-first, optionally filtered
// by the topic query parameter.
func (s *Server) handleHistory(c *fiber.Ctx) error {
	topic := c.Query("topic")

	artifacts, err := s.engine.History(c.Context(), topic)
	if err != nil {
		return s.errorStatus(c, err)
	}

	return c.JSON(HistoryResponse{
		Count:     len(artifacts),
		Artifacts: artifacts,
	})
}

// errorStatus maps engine errors onto HTTP statuses. Anything unmapped is a
// 500 with a generic body; the detail goes to the log, not the client.
func (s *Server) errorStatus(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidRequest), errors.Is(err, feedback.ErrInvalidCommand):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})

	case storage.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})

	case errors.Is(err, engine.ErrGenerationTimeout):
		return c.Status(fiber.StatusGatewayTimeout).JSON(ErrorResponse{Error: err.Error()})

	case errors.Is(err, storage.ErrUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: err.Error()})

	default:
		s.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
	}
}
