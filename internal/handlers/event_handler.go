package handlers

import (
	"strconv"

	"github.com/hejmarcin29/panel-firma-sub007/internal/services"

	"github.com/gin-gonic/gin"
)

// EventHandler serves the in-app activity feed.
type EventHandler struct {
	eventService services.EventService
}

func NewEventHandler(eventService services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// GET /api/events?limit=50&kind=settlement.paid
func (h *EventHandler) Recent(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}

	var events interface{}
	if kind := c.Query("kind"); kind != "" {
		events, err = h.eventService.RecentByKind(kind, limit)
	} else {
		events, err = h.eventService.Recent(limit)
	}
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, events)
}
