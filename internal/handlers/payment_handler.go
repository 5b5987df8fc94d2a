package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/AHADKHATTAK1/zaidan-gym/internal/errors"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/models"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/services"
)

// PaymentHandler handles payment ledger and transaction requests
type PaymentHandler struct {
	paymentService     services.PaymentServicer
	transactionService services.TransactionServicer
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService services.PaymentServicer, transactionService services.TransactionServicer) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, transactionService: transactionService}
}

// RecordPaymentRequest represents the payment recording payload. Month is
// required for monthly payments and must be omitted for yearly ones. A nil
// amount falls back to the member's fee override, then the global price.
type RecordPaymentRequest struct {
	PlanType string `json:"plan_type" binding:"required,plan_type"`
	Year     int    `json:"year" binding:"required,min=1900,max=2999"`
	Month    *int   `json:"month" binding:"omitempty,fee_month"`
	Amount   *int64 `json:"amount" binding:"omitempty,min=0"`
	Method   string `json:"method" binding:"max=32"`
}

// SetStatusRequest represents the manual status override payload
type SetStatusRequest struct {
	Status string `json:"status" binding:"required,fee_status"`
}

// RecordPayment records a payment for a member
// @Summary     Record a payment
// @Description Record a monthly or yearly payment, mark the covered months Paid, and append an audit event
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Member ID"
// @Param       request body RecordPaymentRequest true "Payment data"
// @Success     201 {object} models.PaymentTransaction "Recorded transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /members/{id}/payments [post]
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	memberID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	txn, err := h.transactionService.Record(
		memberID, models.PlanType(req.PlanType), req.Year, req.Month,
		req.Amount, req.Method, getActorID(c),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": txn})
}

// MarkUnpaid forces a month back to Unpaid
// @Summary     Mark a month unpaid
// @Description Manual correction: force one month to Unpaid. Audited, records no transaction.
// @Tags        payments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Member ID"
// @Param       year path int true "Year"
// @Param       month path int true "Month (1-12)"
// @Success     200 {object} models.Payment "Updated row"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /members/{id}/payments/{year}/{month}/unpaid [put]
func (h *PaymentHandler) MarkUnpaid(c *gin.Context) {
	memberID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	year, err := parsePathInt(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}
	month, err := parsePathInt(c, "month")
	if err != nil {
		respondWithError(c, err)
		return
	}

	row, err := h.paymentService.MarkUnpaid(memberID, year, month, getActorID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": row})
}

// SetStatus manually overrides one month's status
// @Summary     Override a month's status
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Member ID"
// @Param       year path int true "Year"
// @Param       month path int true "Month (1-12)"
// @Param       request body SetStatusRequest true "New status"
// @Success     200 {object} models.Payment "Updated row"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /members/{id}/payments/{year}/{month} [put]
func (h *PaymentHandler) SetStatus(c *gin.Context) {
	memberID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	year, err := parsePathInt(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}
	month, err := parsePathInt(c, "month")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	row, err := h.paymentService.SetStatus(memberID, year, month, models.FeeStatus(req.Status), getActorID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": row})
}

// GetFeesGrid returns every active member's status for one month
// @Summary     Get the fees grid for a month
// @Description Every active member's fee status for the given period; missing ledger rows are materialized
// @Tags        payments
// @Produce     json
// @Security    BearerAuth
// @Param       year path int true "Year"
// @Param       month path int true "Month (1-12)"
// @Success     200 {array} services.MemberFeeRow "Grid rows"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /fees/{year}/{month} [get]
func (h *PaymentHandler) GetFeesGrid(c *gin.Context) {
	year, err := parsePathInt(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}
	month, err := parsePathInt(c, "month")
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.paymentService.FeesForPeriod(year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fees": rows})
}

// GetUnpaidSummary returns outstanding dues per member
// @Summary     Get the unpaid summary
// @Description Members with outstanding months, total due, and last paid period
// @Tags        payments
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.UnpaidMemberSummary "Summaries"
// @Router      /fees/unpaid [get]
func (h *PaymentHandler) GetUnpaidSummary(c *gin.Context) {
	summaries, err := h.paymentService.UnpaidSummary()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unpaid": summaries})
}

// GetTransactions returns a member's transaction history
// @Summary     Get a member's transactions
// @Tags        payments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Member ID"
// @Param       order query string false "Ordering: oldest or newest" default(newest)
// @Success     200 {array} models.PaymentTransaction "Transactions"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /members/{id}/transactions [get]
func (h *PaymentHandler) GetTransactions(c *gin.Context) {
	memberID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	order := services.HistoryNewestFirst
	if c.Query("order") == string(services.HistoryOldestFirst) {
		order = services.HistoryOldestFirst
	}

	transactions, err := h.transactionService.History(memberID, order)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
