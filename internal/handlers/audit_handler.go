package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/AHADKHATTAK1/zaidan-gym/internal/errors"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/pagination"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/services"
)

// AuditHandler exposes the audit log and chain verification
type AuditHandler struct {
	auditService services.AuditServicer
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService services.AuditServicer) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// ListEvents lists audit events, newest first
// @Summary     List audit events
// @Tags        audit
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Param       action query string false "Filter by action, e.g. payment.txn.monthly"
// @Success     200 {object} pagination.PageResponse[models.AuditEvent] "Events"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /audit/events [get]
func (h *AuditHandler) ListEvents(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	events, err := h.auditService.ListEvents(page, c.Query("action"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// VerifyChain replays the full audit chain
// @Summary     Verify the audit chain
// @Description Recompute every event digest and report the first broken sequence, if any
// @Tags        audit
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.VerificationResult "Verification result"
// @Router      /audit/verify [get]
func (h *AuditHandler) VerifyChain(c *gin.Context) {
	result, err := h.auditService.Verify()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
