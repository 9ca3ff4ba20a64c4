package handlers

import (
	"errors"

	"agritoken-exchange/internal/core/domain"
	"agritoken-exchange/internal/core/services"
	"agritoken-exchange/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FeedbackHandler handles the feedback-to-email endpoint
type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
	}
}

// FeedbackRequest represents a feedback submission
type FeedbackRequest struct {
	Text string `json:"text"`
}

// Submit relays feedback to the operator mailbox
// @Summary Submit feedback
// @Description Send feedback text to the platform operator via email
// @Tags Feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body FeedbackRequest true "Feedback text"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /feedback [post]
func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	var req FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	username, ok := c.Locals("username").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.feedbackService.Send(username, req.Text); err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, "Feedback text is required")
		case errors.Is(err, domain.ErrExternalService):
			return response.BadGateway(c, "Failed to send feedback, please try again later")
		default:
			return response.InternalServerError(c, "Failed to send feedback")
		}
	}

	return response.Success(c, "Thank you for your feedback", nil)
}
