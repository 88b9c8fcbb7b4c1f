package handlers

import (
	"github.com/hejmarcin29/panel-firma-sub007/internal/middleware"
	"github.com/hejmarcin29/panel-firma-sub007/internal/services"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	quoteService services.QuoteService
}

func NewQuoteHandler(quoteService services.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// POST /api/montages/:id/quotes
func (h *QuoteHandler) Create(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input services.CreateQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "nieprawidłowe dane oferty")
		return
	}

	quote, err := h.quoteService.CreateQuote(id, &input, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, quote)
}

// GET /api/montages/:id/quotes
func (h *QuoteHandler) ListByMontage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	quotes, err := h.quoteService.ListByMontage(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, quotes)
}

// GET /api/quotes/:id
func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	quote, err := h.quoteService.GetQuote(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, quote)
}

// POST /api/quotes/:id/send
func (h *QuoteHandler) MarkSent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	quote, err := h.quoteService.MarkSent(id, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, quote)
}

// POST /api/quotes/:id/accept
func (h *QuoteHandler) Accept(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	quote, err := h.quoteService.Accept(id, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, quote)
}

// POST /api/quotes/:id/reject
func (h *QuoteHandler) Reject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	quote, err := h.quoteService.Reject(id, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, quote)
}
