package handlers

import (
	"errors"

	"agritoken-exchange/internal/core/domain"
	"agritoken-exchange/internal/core/services"
	"agritoken-exchange/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ContributorHandler handles contributor registry endpoints
type ContributorHandler struct {
	contributorService *services.ContributorService
}

// NewContributorHandler creates a new contributor handler
func NewContributorHandler(contributorService *services.ContributorService) *ContributorHandler {
	return &ContributorHandler{
		contributorService: contributorService,
	}
}

// SetRateRequest represents a rate update request
type SetRateRequest struct {
	PreferredRate float64 `json:"preferred_rate"`
}

// List lists all contributors with their offered rates
// @Summary List contributors
// @Description List contributors with interests and offered rates, ordered by username
// @Tags Contributors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /contributors [get]
func (h *ContributorHandler) List(c *fiber.Ctx) error {
	listings, err := h.contributorService.ListContributors(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list contributors")
	}

	return response.Success(c, "Contributors retrieved successfully", fiber.Map{
		"contributors": listings,
	})
}

// GetRate resolves a contributor selection to their offered rate
// @Summary Get contributor rate
// @Description Get the selected contributor's offered interest rate
// @Tags Contributors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param username path string true "Contributor username"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /contributors/{username}/rate [get]
func (h *ContributorHandler) GetRate(c *fiber.Ctx) error {
	username := c.Params("username")

	rate, err := h.contributorService.SelectContributor(c.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrContributorNotFound) {
			return response.NotFound(c, "Contributor not found")
		}
		return response.InternalServerError(c, "Failed to get contributor rate")
	}

	return response.Success(c, "Contributor rate retrieved successfully", fiber.Map{
		"contributor_username": rate.ContributorUsername,
		"preferred_rate":       rate.PreferredRate,
	})
}

// SetRate updates the caller's offered rate
// @Summary Set preferred rate
// @Description Set the contributor's single active offered rate (0-20%)
// @Tags Contributors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SetRateRequest true "Rate data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /contributors/rate [put]
func (h *ContributorHandler) SetRate(c *fiber.Ctx) error {
	var req SetRateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	username, ok := c.Locals("username").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.contributorService.SetRate(c.Context(), username, req.PreferredRate); err != nil {
		switch {
		case errors.Is(err, domain.ErrRateOutOfRange):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrContributorNotFound):
			return response.NotFound(c, "Contributor not found")
		default:
			return response.InternalServerError(c, "Failed to update rate")
		}
	}

	return response.Success(c, "Rate updated successfully", fiber.Map{
		"preferred_rate": req.PreferredRate,
	})
}
