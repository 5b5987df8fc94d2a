package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/AHADKHATTAK1/zaidan-gym/internal/errors"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/models"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/pagination"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/services"
)

// MemberHandler handles member lifecycle requests
type MemberHandler struct {
	memberService  services.MemberServicer
	paymentService services.PaymentServicer
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService services.MemberServicer, paymentService services.PaymentServicer) *MemberHandler {
	return &MemberHandler{memberService: memberService, paymentService: paymentService}
}

// CreateMemberRequest represents the member registration payload
type CreateMemberRequest struct {
	Name          string `json:"name" binding:"required,max=200"`
	Phone         string `json:"phone" binding:"max=32"`
	Email         string `json:"email" binding:"omitempty,email,max=255"`
	AdmissionDate string `json:"admission_date" binding:"required,datetime=2006-01-02"`
	PlanType      string `json:"plan_type" binding:"omitempty,plan_type"`
	MonthlyFee    *int64 `json:"monthly_fee" binding:"omitempty,min=0"`
}

// UpdatePlanRequest represents the plan switch payload
type UpdatePlanRequest struct {
	PlanType string `json:"plan_type" binding:"required,plan_type"`
}

// CreateMember registers a new member
// @Summary     Register a member
// @Description Register a member and seed their admission-year payment rows
// @Tags        members
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateMemberRequest true "Member data"
// @Success     201 {object} models.Member "Member created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /members [post]
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	admission, err := time.Parse("2006-01-02", req.AdmissionDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid admission_date"))
		return
	}

	member, err := h.memberService.CreateMember(
		req.Name, req.Phone, req.Email, admission,
		models.PlanType(req.PlanType), req.MonthlyFee, getActorID(c),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"member": member})
}

// GetMember retrieves a member by ID
// @Summary     Get a member
// @Tags        members
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Member ID"
// @Success     200 {object} models.Member "Member"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /members/{id} [get]
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	member, err := h.memberService.GetMember(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": member})
}

// ListMembers lists members with pagination
// @Summary     List members
// @Tags        members
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Success     200 {object} pagination.PageResponse[models.Member] "Members"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /members [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	members, err := h.memberService.ListMembers(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// UpdatePlan switches a member's billing plan
// @Summary     Update a member's plan
// @Tags        members
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Member ID"
// @Param       request body UpdatePlanRequest true "New plan"
// @Success     200 {object} models.Member "Updated member"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /members/{id}/plan [put]
func (h *MemberHandler) UpdatePlan(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	member, err := h.memberService.UpdatePlan(id, models.PlanType(req.PlanType), getActorID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": member})
}

// DeleteMember removes a member
// @Summary     Delete a member
// @Description Delete a member and their payment rows. Audit events are retained.
// @Tags        members
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Member ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /members/{id} [delete]
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.memberService.DeleteMember(id, getActorID(c)); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member deleted"})
}

// GetMemberHistory returns a member's month-by-month payment history
// @Summary     Get a member's payment history
// @Description Month-by-month status from the admission month through the current month
// @Tags        members
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Member ID"
// @Success     200 {array} services.MonthHistoryEntry "History"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /members/{id}/history [get]
func (h *MemberHandler) GetMemberHistory(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	history, err := h.paymentService.MemberHistory(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// GetMemberStatus returns a member's current-month fee status
// @Summary     Get a member's current fee status
// @Tags        members
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Member ID"
// @Success     200 {object} services.CurrentStatus "Current status"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /members/{id}/status [get]
func (h *MemberHandler) GetMemberStatus(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	status, err := h.paymentService.CurrentStatus(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}
