package handlers

import (
	"net/http"
	"strconv"

	"github.com/hejmarcin29/panel-firma-sub007/internal/apperrors"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "created", Data: data})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Code: 40000, Message: message})
}

// HandleError maps the application error taxonomy onto HTTP statuses.
// User-facing messages pass through verbatim; anything unclassified is a
// server fault and gets a generic message.
func HandleError(c *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		c.JSON(http.StatusNotFound, Response{Code: 40400, Message: err.Error()})
	case apperrors.KindPermissionDenied:
		c.JSON(http.StatusForbidden, Response{Code: 40300, Message: err.Error()})
	case apperrors.KindInvalidState:
		c.JSON(http.StatusConflict, Response{Code: 40900, Message: err.Error()})
	case apperrors.KindValidation:
		c.JSON(http.StatusBadRequest, Response{Code: 40000, Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, Response{Code: 50000, Message: "wystąpił błąd serwera"})
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		BadRequest(c, "nieprawidłowy identyfikator")
		return 0, false
	}
	return uint(id), true
}
