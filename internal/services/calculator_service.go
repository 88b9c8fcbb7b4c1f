package services

import (
	"math"

	"github.com/hejmarcin29/panel-firma-sub007/internal/apperrors"

	"github.com/shopspring/decimal"
)

// CalculatorService is the storefront floor calculator: floor area plus
// a waste allowance, rounded up to whole packages.
type CalculatorService interface {
	CalculateFloor(input FloorCalcInput) (*FloorCalcResult, error)
}

type FloorCalcInput struct {
	Area         float64 `json:"area" binding:"required"`
	WastePercent float64 `json:"waste_percent"`
	PackArea     float64 `json:"pack_area" binding:"required"`
}

type FloorCalcResult struct {
	Area          float64 `json:"area"`
	WastePercent  float64 `json:"waste_percent"`
	AreaWithWaste float64 `json:"area_with_waste"`
	Packs         int     `json:"packs"`
	TotalArea     float64 `json:"total_area"`
	Leftover      float64 `json:"leftover"`
}

type calculatorService struct{}

func NewCalculatorService() CalculatorService {
	return &calculatorService{}
}

func (s *calculatorService) CalculateFloor(input FloorCalcInput) (*FloorCalcResult, error) {
	if input.Area <= 0 {
		return nil, apperrors.Validation("powierzchnia musi być większa od zera")
	}
	if input.PackArea <= 0 {
		return nil, apperrors.Validation("powierzchnia paczki musi być większa od zera")
	}
	if input.WastePercent < 0 {
		return nil, apperrors.Validation("zapas nie może być ujemny")
	}

	area := decimal.NewFromFloat(input.Area)
	waste := decimal.NewFromFloat(input.WastePercent).Div(decimal.NewFromInt(100))
	withWaste := area.Mul(decimal.NewFromInt(1).Add(waste)).Round(2)

	packArea := decimal.NewFromFloat(input.PackArea)
	packs := int(math.Ceil(withWaste.Div(packArea).InexactFloat64()))
	total := packArea.Mul(decimal.NewFromInt(int64(packs))).Round(2)
	leftover := total.Sub(withWaste).Round(2)

	return &FloorCalcResult{
		Area:          input.Area,
		WastePercent:  input.WastePercent,
		AreaWithWaste: withWaste.InexactFloat64(),
		Packs:         packs,
		TotalArea:     total.InexactFloat64(),
		Leftover:      leftover.InexactFloat64(),
	}, nil
}
