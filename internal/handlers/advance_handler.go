package handlers

import (
	"github.com/hejmarcin29/panel-firma-sub007/internal/middleware"
	"github.com/hejmarcin29/panel-firma-sub007/internal/services"

	"github.com/gin-gonic/gin"
)

type AdvanceHandler struct {
	advanceService services.AdvanceService
}

func NewAdvanceHandler(advanceService services.AdvanceService) *AdvanceHandler {
	return &AdvanceHandler{advanceService: advanceService}
}

type requestAdvanceRequest struct {
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description"`
}

// POST /api/advances
func (h *AdvanceHandler) Request(c *gin.Context) {
	var req requestAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "nieprawidłowe dane zaliczki")
		return
	}

	advance, err := h.advanceService.Request(req.Amount, req.Description, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, advance)
}

// POST /api/advances/:id/pay
func (h *AdvanceHandler) MarkPaid(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	advance, err := h.advanceService.MarkPaid(id, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, advance)
}

// GET /api/advances/my
func (h *AdvanceHandler) ListMine(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	advances, err := h.advanceService.ListByInstaller(actor.ID)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, advances)
}

// GET /api/installers/:id/advances/deductible
func (h *AdvanceHandler) ListDeductible(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	advances, err := h.advanceService.ListDeductible(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, advances)
}
