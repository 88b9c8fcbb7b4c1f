package handlers

import (
	"github.com/hejmarcin29/panel-firma-sub007/internal/services"

	"github.com/gin-gonic/gin"
)

// CalculatorHandler serves the public storefront floor calculator.
type CalculatorHandler struct {
	calculatorService services.CalculatorService
}

func NewCalculatorHandler(calculatorService services.CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{calculatorService: calculatorService}
}

// POST /api/calculator/floor
func (h *CalculatorHandler) CalculateFloor(c *gin.Context) {
	var input services.FloorCalcInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "nieprawidłowe dane kalkulatora")
		return
	}

	result, err := h.calculatorService.CalculateFloor(input)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, result)
}
