package handlers

import (
	"time"

	"github.com/hejmarcin29/panel-firma-sub007/internal/middleware"
	"github.com/hejmarcin29/panel-firma-sub007/internal/redis"
	"github.com/hejmarcin29/panel-firma-sub007/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	userService services.UserService
	sessions    *redis.Client
	sessionTTL  time.Duration
}

func NewAuthHandler(userService services.UserService, sessions *redis.Client, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{userService: userService, sessions: sessions, sessionTTL: sessionTTL}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "e-mail i hasło są wymagane")
		return
	}

	token, user, err := h.userService.Authenticate(req.Email, req.Password)
	if err != nil {
		HandleError(c, err)
		return
	}

	sessionID := ""
	if h.sessions != nil {
		sessionID = uuid.New().String()
		now := time.Now()
		// Best-effort: the JWT alone authenticates, the session record
		// only feeds the active-logins view.
		h.sessions.SetSession(sessionID, &redis.SessionData{
			UserID:    user.ID,
			Email:     user.Email,
			Roles:     user.Roles,
			CreatedAt: now,
			UpdatedAt: now,
		}, h.sessionTTL)
	}
	Success(c, gin.H{"token": token, "user": user, "session_id": sessionID})
}

type logoutRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "identyfikator sesji jest wymagany")
		return
	}
	if h.sessions != nil {
		if err := h.sessions.DeleteSession(req.SessionID); err != nil {
			HandleError(c, err)
			return
		}
	}
	Success(c, nil)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	user, err := h.userService.GetUser(actor.ID)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, user)
}

// POST /api/users
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var input services.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "nieprawidłowe dane użytkownika")
		return
	}

	user, err := h.userService.CreateUser(&input, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, user)
}

// GET /api/users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, users)
}

// GET /api/installers
func (h *AuthHandler) ListInstallers(c *gin.Context) {
	installers, err := h.userService.ListInstallers()
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, installers)
}

type setRateRequest struct {
	ServiceCode string  `json:"service_code" binding:"required"`
	Rate        float64 `json:"rate"`
}

// PUT /api/users/:id/rates
func (h *AuthHandler) SetUserRate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req setRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "nieprawidłowe dane stawki")
		return
	}

	if err := h.userService.SetUserRate(id, req.ServiceCode, req.Rate, middleware.ActorFrom(c)); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

// GET /api/services
func (h *AuthHandler) ListServices(c *gin.Context) {
	catalog, err := h.userService.ListServices()
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, catalog)
}

type createServiceRequest struct {
	Code     string  `json:"code" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	BaseRate float64 `json:"base_rate"`
	Unit     string  `json:"unit"`
}

// POST /api/services
func (h *AuthHandler) CreateService(c *gin.Context) {
	var req createServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "nieprawidłowe dane usługi")
		return
	}

	service, err := h.userService.CreateService(req.Code, req.Name, req.BaseRate, req.Unit, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, service)
}
