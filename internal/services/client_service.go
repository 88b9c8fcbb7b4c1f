package services

import (
	"errors"

	"github.com/hejmarcin29/panel-firma-sub007/internal/apperrors"
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"
	"github.com/hejmarcin29/panel-firma-sub007/internal/repository"

	"gorm.io/gorm"
)

type ClientService interface {
	CreateClient(client *models.Client) (*models.Client, error)
	GetClient(id uint) (*models.Client, error)
	ListClients() ([]models.Client, error)
	SearchClients(query string) ([]models.Client, error)
	UpdateClient(client *models.Client) error
	DeleteClient(id uint) error
}

type clientService struct {
	clientRepo repository.ClientRepository
	cache      Cache
}

func NewClientService(clientRepo repository.ClientRepository, cache Cache) ClientService {
	return &clientService{clientRepo: clientRepo, cache: cache}
}

func (s *clientService) CreateClient(client *models.Client) (*models.Client, error) {
	if client.Name == "" {
		return nil, apperrors.Validation("nazwa klienta jest wymagana")
	}
	if err := s.clientRepo.Create(client); err != nil {
		return nil, err
	}
	revalidate(s.cache, "/crm/clients")
	return client, nil
}

func (s *clientService) GetClient(id uint) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono klienta")
		}
		return nil, err
	}
	return client, nil
}

func (s *clientService) ListClients() ([]models.Client, error) {
	return s.clientRepo.GetAll()
}

func (s *clientService) SearchClients(query string) ([]models.Client, error) {
	return s.clientRepo.Search(query)
}

func (s *clientService) UpdateClient(client *models.Client) error {
	if err := s.clientRepo.Update(client); err != nil {
		return err
	}
	revalidate(s.cache, "/crm/clients")
	return nil
}

func (s *clientService) DeleteClient(id uint) error {
	if err := s.clientRepo.Delete(id); err != nil {
		return err
	}
	revalidate(s.cache, "/crm/clients")
	return nil
}
