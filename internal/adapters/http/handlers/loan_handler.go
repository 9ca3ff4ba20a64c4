package handlers

import (
	"errors"
	"strconv"

	"agritoken-exchange/internal/adapters/persistence/models"
	"agritoken-exchange/internal/core/domain"
	"agritoken-exchange/internal/core/services"
	"agritoken-exchange/internal/pkg/emi"
	"agritoken-exchange/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan ledger and adjudication endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

// SubmitRequest represents a loan application request
type SubmitRequest struct {
	Purpose             string  `json:"purpose"`
	Amount              float64 `json:"amount"`
	RepaymentPeriod     string  `json:"repayment_period"`
	ContributorUsername string  `json:"contributor_username"`
	AnnualIncome        float64 `json:"annual_income"`
	ExistingLoans       float64 `json:"existing_loans"`
	Collateral          string  `json:"collateral,omitempty"`
}

// EstimateRequest represents an EMI estimator request
type EstimateRequest struct {
	Amount          float64 `json:"amount"`
	AnnualRate      float64 `json:"annual_rate"`
	RepaymentPeriod string  `json:"repayment_period"`
}

// Submit submits a new loan application
// @Summary Submit loan application
// @Description Submit a loan application referencing a chosen contributor (Farmer only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitRequest true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Submit(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	username, ok := c.Locals("username").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	input := &services.SubmitInput{
		Purpose:             req.Purpose,
		Amount:              req.Amount,
		RepaymentPeriod:     req.RepaymentPeriod,
		ContributorUsername: req.ContributorUsername,
		AnnualIncome:        req.AnnualIncome,
		ExistingLoans:       req.ExistingLoans,
		Collateral:          req.Collateral,
	}

	loan, err := h.loanService.Submit(c.Context(), username, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrContributorNotFound):
			return response.NotFound(c, "Contributor not found")
		default:
			return response.InternalServerError(c, "Failed to submit loan application")
		}
	}

	return response.Created(c, "Loan application submitted successfully", fiber.Map{
		"loan": loanWithInstallment(loan),
	})
}

// Estimate computes a monthly installment estimate
// @Summary Estimate EMI
// @Description Compute the equated monthly installment for an amount, rate and repayment period
// @Tags Loans
// @Accept json
// @Produce json
// @Param body body EstimateRequest true "Estimator input"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /loans/emi [post]
func (h *LoanHandler) Estimate(c *fiber.Ctx) error {
	var req EstimateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	installment, err := h.loanService.Estimate(&services.EstimateInput{
		Amount:          req.Amount,
		AnnualRate:      req.AnnualRate,
		RepaymentPeriod: req.RepaymentPeriod,
	})
	if err != nil {
		if errors.Is(err, domain.ErrOutOfRange) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to compute EMI")
	}

	return response.Success(c, "EMI computed successfully", fiber.Map{
		"monthly_installment": installment,
	})
}

// ListMine lists the caller's own loan applications
// @Summary List my loans
// @Description List the authenticated farmer's loan applications
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /loans/my [get]
func (h *LoanHandler) ListMine(c *fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	loans, err := h.loanService.ListMine(c.Context(), username)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loan applications")
	}

	return response.Success(c, "Loan applications retrieved successfully", fiber.Map{
		"loans": toResponses(loans),
	})
}

// ListPending lists pending applications for review
// @Summary List pending loans
// @Description List pending loan applications ordered by id (Admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /loans/pending [get]
func (h *LoanHandler) ListPending(c *fiber.Ctx) error {
	loans, err := h.loanService.ListPending(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list pending applications")
	}

	return response.Success(c, "Pending applications retrieved successfully", fiber.Map{
		"loans": toResponses(loans),
	})
}

// GetByID gets a loan application by ID
// @Summary Get loan by ID
// @Description Get a specific loan application
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return response.NotFound(c, "Loan application not found")
		}
		return response.InternalServerError(c, "Failed to get loan application")
	}

	return response.Success(c, "Loan application retrieved successfully", fiber.Map{
		"loan": loanWithInstallment(loan),
	})
}

// Approve approves a pending application
// @Summary Approve loan
// @Description Transition a pending application to Approved (Admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/approve [put]
func (h *LoanHandler) Approve(c *fiber.Ctx) error {
	return h.adjudicate(c, domain.LoanApproved)
}

// Reject rejects a pending application
// @Summary Reject loan
// @Description Transition a pending application to Rejected (Admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/reject [put]
func (h *LoanHandler) Reject(c *fiber.Ctx) error {
	return h.adjudicate(c, domain.LoanRejected)
}

func (h *LoanHandler) adjudicate(c *fiber.Ctx, decision domain.LoanStatus) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	username, _ := c.Locals("username").(string)
	role, _ := c.Locals("role").(string)

	loan, err := h.loanService.Adjudicate(c.Context(), uint(id), decision, username, role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only admins can adjudicate loan applications")
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan application not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Loan application already decided")
		case errors.Is(err, services.ErrInvalidDecision):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to adjudicate loan application")
		}
	}

	return response.Success(c, "Loan application "+string(decision), fiber.Map{
		"loan": loan.ToResponse(),
	})
}

// loanWithInstallment attaches the computed installment to a loan response
func loanWithInstallment(loan *models.LoanApplication) *models.LoanResponse {
	resp := loan.ToResponse()
	if installment, err := emi.Compute(loan.Amount, loan.InterestRate, loan.TermMonths); err == nil {
		resp.MonthlyInstallment = installment
	}
	return resp
}

func toResponses(loans []*models.LoanApplication) []*models.LoanResponse {
	resps := make([]*models.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		resps = append(resps, loan.ToResponse())
	}
	return resps
}
