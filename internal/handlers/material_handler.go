package handlers

import (
	"github.com/hejmarcin29/panel-firma-sub007/internal/middleware"
	"github.com/hejmarcin29/panel-firma-sub007/internal/services"

	"github.com/gin-gonic/gin"
)

type MaterialHandler struct {
	materialService services.MaterialService
}

func NewMaterialHandler(materialService services.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

type createPORequest struct {
	MontageIDs []uint `json:"montage_ids"`
	SupplierID uint   `json:"supplier_id" binding:"required"`
}

// POST /api/purchase-orders
func (h *MaterialHandler) CreatePurchaseOrder(c *gin.Context) {
	var req createPORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "nieprawidłowe dane zamówienia")
		return
	}

	po, err := h.materialService.CreatePurchaseOrder(req.MontageIDs, req.SupplierID, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, po)
}

// POST /api/purchase-orders/:id/receive
func (h *MaterialHandler) ReceivePurchaseOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	po, err := h.materialService.ReceivePurchaseOrder(id, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, po)
}

// POST /api/montages/:id/issue-materials
func (h *MaterialHandler) IssueMaterials(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	montage, err := h.materialService.IssueMaterialsToCrew(id, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, montage)
}

// GET /api/purchase-orders
func (h *MaterialHandler) List(c *gin.Context) {
	orders, err := h.materialService.ListPurchaseOrders()
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, orders)
}

// GET /api/purchase-orders/:id
func (h *MaterialHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	po, err := h.materialService.GetPurchaseOrder(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, po)
}
