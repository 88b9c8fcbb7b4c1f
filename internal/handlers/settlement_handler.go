package handlers

import (
	"github.com/hejmarcin29/panel-firma-sub007/internal/middleware"
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"
	"github.com/hejmarcin29/panel-firma-sub007/internal/services"

	"github.com/gin-gonic/gin"
)

type SettlementHandler struct {
	settlementService services.SettlementService
}

func NewSettlementHandler(settlementService services.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

// GET /api/montages/:id/settlement/calculate
func (h *SettlementHandler) Calculate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	calc, err := h.settlementService.Calculate(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, calc)
}

type saveSettlementRequest struct {
	Calculation models.SettlementCalculation `json:"calculation" binding:"required"`
	Note        string                       `json:"note"`
	AsDraft     bool                         `json:"as_draft"`
}

// POST /api/montages/:id/settlement
func (h *SettlementHandler) Save(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req saveSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "nieprawidłowe dane rozliczenia")
		return
	}

	settlement, err := h.settlementService.Save(id, &req.Calculation, req.Note, req.AsDraft, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, settlement)
}

// GET /api/montages/:id/settlement
func (h *SettlementHandler) GetByMontage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	settlement, err := h.settlementService.GetByMontage(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, settlement)
}

// POST /api/settlements/:id/approve
func (h *SettlementHandler) Approve(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	settlement, err := h.settlementService.Approve(id, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, settlement)
}

type paySettlementRequest struct {
	AdvanceIDs []uint `json:"advance_ids"`
}

// POST /api/settlements/:id/pay
func (h *SettlementHandler) Pay(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req paySettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "nieprawidłowe dane płatności")
		return
	}

	settlement, err := h.settlementService.PayWithDeductions(id, req.AdvanceIDs, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, settlement)
}

// GET /api/settlements/my
func (h *SettlementHandler) ListMine(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	settlements, err := h.settlementService.ListByInstaller(actor.ID)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, settlements)
}
