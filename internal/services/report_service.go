package services

import (
	"fmt"
	"time"

	"github.com/hejmarcin29/panel-firma-sub007/internal/apperrors"
	"github.com/hejmarcin29/panel-firma-sub007/internal/authz"
	"github.com/hejmarcin29/panel-firma-sub007/internal/repository"

	"github.com/xuri/excelize/v2"
)

// ReportService produces Excel exports for the office.
type ReportService interface {
	ExportSettlements(from, to time.Time, actor authz.Actor) (*excelize.File, string, error)
}

type reportService struct {
	settlementRepo repository.SettlementRepository
	userRepo       repository.UserRepository
	policy         *authz.Policy
}

func NewReportService(
	settlementRepo repository.SettlementRepository,
	userRepo repository.UserRepository,
	policy *authz.Policy,
) ReportService {
	return &reportService{
		settlementRepo: settlementRepo,
		userRepo:       userRepo,
		policy:         policy,
	}
}

// ExportSettlements renders all settlements in the period as a
// spreadsheet, one row per settlement.
func (s *reportService) ExportSettlements(from, to time.Time, actor authz.Actor) (*excelize.File, string, error) {
	if !s.policy.Allow(actor, authz.ActionReportExport) {
		return nil, "", apperrors.PermissionDenied("brak uprawnień do eksportu raportów")
	}

	settlements, err := s.settlementRepo.GetByPeriod(from, to)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Rozliczenia"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Montaż", "Montażysta", "Status", "Kwota", "Opłacono", "Notatka"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	for i, header := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	installerNames := make(map[uint]string)
	for i, settlement := range settlements {
		row := i + 2
		name, ok := installerNames[settlement.InstallerID]
		if !ok {
			if user, err := s.userRepo.GetByID(settlement.InstallerID); err == nil {
				name = user.Name
			}
			installerNames[settlement.InstallerID] = name
		}

		paidAt := ""
		if settlement.PaidAt != nil {
			paidAt = settlement.PaidAt.Format("2006-01-02")
		}

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), settlement.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), settlement.MontageID)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), name)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), settlement.Status)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), settlement.TotalAmount)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), paidAt)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), settlement.Note)
	}

	filename := fmt.Sprintf("rozliczenia_%s_%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02"))
	return f, filename, nil
}
