package handlers

import (
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"
	"github.com/hejmarcin29/panel-firma-sub007/internal/services"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService services.ClientService
}

func NewClientHandler(clientService services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// POST /api/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		BadRequest(c, "nieprawidłowe dane klienta")
		return
	}

	created, err := h.clientService.CreateClient(&client)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, created)
}

// GET /api/clients
func (h *ClientHandler) List(c *gin.Context) {
	if query := c.Query("q"); query != "" {
		clients, err := h.clientService.SearchClients(query)
		if err != nil {
			HandleError(c, err)
			return
		}
		Success(c, clients)
		return
	}

	clients, err := h.clientService.ListClients()
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, clients)
}

// GET /api/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	client, err := h.clientService.GetClient(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, client)
}

// PUT /api/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(id)
	if err != nil {
		HandleError(c, err)
		return
	}

	if err := c.ShouldBindJSON(client); err != nil {
		BadRequest(c, "nieprawidłowe dane klienta")
		return
	}
	client.ID = id

	if err := h.clientService.UpdateClient(client); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, client)
}

// DELETE /api/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.clientService.DeleteClient(id); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}
