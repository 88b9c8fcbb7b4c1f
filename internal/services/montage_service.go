package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/hejmarcin29/panel-firma-sub007/internal/apperrors"
	"github.com/hejmarcin29/panel-firma-sub007/internal/authz"
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"
	"github.com/hejmarcin29/panel-firma-sub007/internal/repository"

	"gorm.io/gorm"
)

type MontageService interface {
	CreateMontage(clientID uint, notes string, actor authz.Actor) (*models.Montage, error)
	GetMontage(id uint) (*models.Montage, error)
	ListMontages(status string, installerID uint) ([]models.Montage, error)
	GetHistory(montageID uint) ([]models.MontageStatusHistory, error)
	ListMeasurements(montageID uint) ([]models.Measurement, error)
	ListInstallations(montageID uint) ([]models.Installation, error)
	UpdateMontage(id uint, input *UpdateMontageInput, actor authz.Actor) (*models.Montage, error)
	SignProtocol(id uint, signatureURL, note string, actor authz.Actor) (*models.Montage, error)
	DeleteMontage(id uint, actor authz.Actor) error
	RestoreMontage(id uint, actor authz.Actor) error
}

// UpdateMontageInput carries partial updates. Pointer fields are applied
// only when present; AssignedInstallerID distinguishes absent from an
// explicit null, which clears the assignment.
type UpdateMontageInput struct {
	Status              *string    `json:"status"`
	StatusNote          string     `json:"status_note"`
	AssignedInstallerID NullableID `json:"assigned_installer_id"`
	AssignedMeasurerID  NullableID `json:"assigned_measurer_id"`
	FloorArea           *float64   `json:"floor_area"`
	InstallationMethod  *string    `json:"installation_method"`
	InstallationPattern *string    `json:"installation_pattern"`
	MeasurementDate     *time.Time `json:"measurement_date"`
	InstallationDate    *time.Time `json:"installation_date"`
	Notes               *string    `json:"notes"`
}

type montageService struct {
	db            *gorm.DB
	montageRepo   repository.MontageRepository
	clientRepo    repository.ClientRepository
	events        EventService
	policy        *authz.Policy
	cache         Cache
	notifier      Notifier
	retentionDays int
}

func NewMontageService(
	db *gorm.DB,
	montageRepo repository.MontageRepository,
	clientRepo repository.ClientRepository,
	events EventService,
	policy *authz.Policy,
	cache Cache,
	notifier Notifier,
	retentionDays int,
) MontageService {
	return &montageService{
		db:            db,
		montageRepo:   montageRepo,
		clientRepo:    clientRepo,
		events:        events,
		policy:        policy,
		cache:         cache,
		notifier:      notifier,
		retentionDays: retentionDays,
	}
}

func (s *montageService) CreateMontage(clientID uint, notes string, actor authz.Actor) (*models.Montage, error) {
	if !s.policy.Allow(actor, authz.ActionMontageUpdate) {
		return nil, apperrors.PermissionDenied("brak uprawnień do wykonania tej operacji")
	}
	if _, err := s.clientRepo.GetByID(clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono klienta")
		}
		return nil, err
	}

	montage := &models.Montage{
		ClientID:       clientID,
		Status:         models.StatusLead,
		MaterialStatus: models.MaterialNone,
		Notes:          notes,
	}
	if err := s.montageRepo.Create(montage); err != nil {
		return nil, err
	}

	revalidate(s.cache, "/crm/montages")
	return montage, nil
}

func (s *montageService) GetMontage(id uint) (*models.Montage, error) {
	montage, err := s.montageRepo.GetWithDetails(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono montażu")
		}
		return nil, err
	}
	return montage, nil
}

// ListMontages filters by coarse status or assigned installer; both
// empty means everything.
func (s *montageService) ListMontages(status string, installerID uint) ([]models.Montage, error) {
	switch {
	case status != "":
		return s.montageRepo.GetByStatus(status)
	case installerID != 0:
		return s.montageRepo.GetByInstaller(installerID)
	default:
		return s.montageRepo.GetAll()
	}
}

func (s *montageService) GetHistory(montageID uint) ([]models.MontageStatusHistory, error) {
	return s.montageRepo.GetHistory(montageID)
}

func (s *montageService) ListMeasurements(montageID uint) ([]models.Measurement, error) {
	return s.montageRepo.GetMeasurements(montageID)
}

func (s *montageService) ListInstallations(montageID uint) ([]models.Installation, error) {
	return s.montageRepo.GetInstallations(montageID)
}

// UpdateMontage applies field updates, records a history entry when the
// status actually changes and propagates an installer/measurer
// reassignment to every measurement and installation row of the montage.
// The whole write runs in one transaction so a partial propagation can
// never be observed.
func (s *montageService) UpdateMontage(id uint, input *UpdateMontageInput, actor authz.Actor) (*models.Montage, error) {
	if !s.policy.Allow(actor, authz.ActionMontageUpdate) {
		return nil, apperrors.PermissionDenied("brak uprawnień do wykonania tej operacji")
	}

	montage, err := s.montageRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono montażu")
		}
		return nil, err
	}

	previousStatus := montage.Status
	statusChanged := false

	if input.Status != nil && *input.Status != montage.Status {
		montage.Status = *input.Status
		now := time.Now()
		montage.StatusChangedAt = &now
		statusChanged = true
	}
	if input.FloorArea != nil {
		montage.FloorArea = *input.FloorArea
	}
	if input.InstallationMethod != nil {
		montage.InstallationMethod = *input.InstallationMethod
	}
	if input.InstallationPattern != nil {
		montage.InstallationPattern = *input.InstallationPattern
	}
	if input.MeasurementDate != nil {
		montage.MeasurementDate = input.MeasurementDate
	}
	if input.InstallationDate != nil {
		montage.InstallationDate = input.InstallationDate
	}
	if input.Notes != nil {
		montage.Notes = *input.Notes
	}
	if input.AssignedInstallerID.Set {
		montage.AssignedInstallerID = input.AssignedInstallerID.Value
	}
	if input.AssignedMeasurerID.Set {
		montage.AssignedMeasurerID = input.AssignedMeasurerID.Value
	}

	actorID := actor.ID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(montage).Error; err != nil {
			return err
		}

		if statusChanged {
			entry := &models.MontageStatusHistory{
				MontageID:  montage.ID,
				FromStatus: previousStatus,
				ToStatus:   montage.Status,
				Note:       input.StatusNote,
				ActorID:    &actorID,
			}
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}

		// Child rows mirror the parent assignment; they are updated in
		// the same transaction so they cannot silently diverge.
		if input.AssignedInstallerID.Set {
			if err := tx.Model(&models.Installation{}).
				Where("montage_id = ?", montage.ID).
				Update("installer_id", input.AssignedInstallerID.Value).Error; err != nil {
				return err
			}
		}
		if input.AssignedMeasurerID.Set {
			if err := tx.Model(&models.Measurement{}).
				Where("montage_id = ?", montage.ID).
				Update("measurer_id", input.AssignedMeasurerID.Value).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if statusChanged {
		s.events.Log(models.EventMontageStatusChanged,
			fmt.Sprintf("Montaż #%d: %s → %s", montage.ID, previousStatus, montage.Status), &actorID)
		s.notifyStatusChange(montage)
	}

	revalidate(s.cache, "/crm/montages", fmt.Sprintf("/crm/montages/%d", montage.ID))
	return montage, nil
}

// notifyStatusChange sends a best-effort SMS to the client about the new
// stage. Delivery failures are ignored; the status change already
// happened.
func (s *montageService) notifyStatusChange(montage *models.Montage) {
	if s.notifier == nil {
		return
	}
	client, err := s.clientRepo.GetByID(montage.ClientID)
	if err != nil || client.PhoneNumber == "" {
		return
	}

	var message string
	switch montage.Status {
	case models.StatusBeforeMeasurement:
		message = "Dziękujemy za zgłoszenie. Wkrótce skontaktujemy się w sprawie terminu pomiaru."
	case models.StatusMaterialsDelivered:
		message = "Materiały na Twój montaż zostały wydane ekipie montażowej."
	case models.StatusCompleted:
		message = "Montaż został zakończony. Dziękujemy za zaufanie!"
	default:
		return
	}
	s.notifier.Send(client.PhoneNumber, message)
}

func (s *montageService) SignProtocol(id uint, signatureURL, note string, actor authz.Actor) (*models.Montage, error) {
	montage, err := s.montageRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono montażu")
		}
		return nil, err
	}
	if montage.ProtocolSignedAt != nil {
		return nil, apperrors.InvalidState("protokół został już podpisany")
	}

	now := time.Now()
	montage.ProtocolSignedAt = &now
	montage.ProtocolSignatureURL = signatureURL
	montage.ProtocolNote = note
	if err := s.montageRepo.Update(montage); err != nil {
		return nil, err
	}

	actorID := actor.ID
	s.events.Log(models.EventProtocolSigned, fmt.Sprintf("Podpisano protokół montażu #%d", montage.ID), &actorID)
	revalidate(s.cache, fmt.Sprintf("/crm/montages/%d", montage.ID))
	return montage, nil
}

func (s *montageService) DeleteMontage(id uint, actor authz.Actor) error {
	if !s.policy.Allow(actor, authz.ActionMontageDelete) {
		return apperrors.PermissionDenied("tylko administrator może usunąć montaż")
	}
	if _, err := s.montageRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("nie znaleziono montażu")
		}
		return err
	}
	if err := s.montageRepo.SoftDelete(id); err != nil {
		return err
	}

	actorID := actor.ID
	s.events.Log(models.EventMontageDeleted, fmt.Sprintf("Usunięto montaż #%d", id), &actorID)
	revalidate(s.cache, "/crm/montages")
	return nil
}

func (s *montageService) RestoreMontage(id uint, actor authz.Actor) error {
	if !s.policy.Allow(actor, authz.ActionMontageRestore) {
		return apperrors.PermissionDenied("tylko administrator może przywrócić montaż")
	}
	if err := s.montageRepo.Restore(id, s.retentionDays); err != nil {
		return err
	}

	actorID := actor.ID
	s.events.Log(models.EventMontageRestored, fmt.Sprintf("Przywrócono montaż #%d", id), &actorID)
	revalidate(s.cache, "/crm/montages")
	return nil
}
