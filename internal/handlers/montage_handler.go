package handlers

import (
	"strconv"

	"github.com/hejmarcin29/panel-firma-sub007/internal/middleware"
	"github.com/hejmarcin29/panel-firma-sub007/internal/services"

	"github.com/gin-gonic/gin"
)

type MontageHandler struct {
	montageService services.MontageService
}

func NewMontageHandler(montageService services.MontageService) *MontageHandler {
	return &MontageHandler{montageService: montageService}
}

type createMontageRequest struct {
	ClientID uint   `json:"client_id" binding:"required"`
	Notes    string `json:"notes"`
}

// POST /api/montages
func (h *MontageHandler) Create(c *gin.Context) {
	var req createMontageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "nieprawidłowe dane montażu")
		return
	}

	montage, err := h.montageService.CreateMontage(req.ClientID, req.Notes, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, montage)
}

// GET /api/montages?status=deposit_paid&installer_id=5
func (h *MontageHandler) List(c *gin.Context) {
	var installerID uint
	if raw := c.Query("installer_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			BadRequest(c, "nieprawidłowy identyfikator montażysty")
			return
		}
		installerID = uint(id)
	}

	montages, err := h.montageService.ListMontages(c.Query("status"), installerID)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, montages)
}

// GET /api/montages/:id/measurements
func (h *MontageHandler) Measurements(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	measurements, err := h.montageService.ListMeasurements(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, measurements)
}

// GET /api/montages/:id/installations
func (h *MontageHandler) Installations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	installations, err := h.montageService.ListInstallations(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, installations)
}

// GET /api/montages/:id
func (h *MontageHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	montage, err := h.montageService.GetMontage(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, montage)
}

// PUT /api/montages/:id
func (h *MontageHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input services.UpdateMontageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "nieprawidłowe dane montażu")
		return
	}

	montage, err := h.montageService.UpdateMontage(id, &input, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, montage)
}

// GET /api/montages/:id/history
func (h *MontageHandler) History(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	history, err := h.montageService.GetHistory(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, history)
}

type signProtocolRequest struct {
	SignatureURL string `json:"signature_url" binding:"required"`
	Note         string `json:"note"`
}

// POST /api/montages/:id/protocol
func (h *MontageHandler) SignProtocol(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req signProtocolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "podpis protokołu jest wymagany")
		return
	}

	montage, err := h.montageService.SignProtocol(id, req.SignatureURL, req.Note, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, montage)
}

// DELETE /api/montages/:id
func (h *MontageHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.montageService.DeleteMontage(id, middleware.ActorFrom(c)); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

// POST /api/montages/:id/restore
func (h *MontageHandler) Restore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.montageService.RestoreMontage(id, middleware.ActorFrom(c)); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}
