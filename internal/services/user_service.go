package services

import (
	"errors"
	"time"

	"github.com/hejmarcin29/panel-firma-sub007/internal/apperrors"
	"github.com/hejmarcin29/panel-firma-sub007/internal/authz"
	"github.com/hejmarcin29/panel-firma-sub007/internal/middleware"
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"
	"github.com/hejmarcin29/panel-firma-sub007/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(input *CreateUserInput, actor authz.Actor) (*models.User, error)
	Authenticate(email, password string) (string, *models.User, error)
	GetUser(id uint) (*models.User, error)
	ListUsers(actor authz.Actor) ([]models.User, error)
	ListInstallers() ([]models.User, error)
	SetUserRate(userID uint, serviceCode string, rate float64, actor authz.Actor) error
	ListServices() ([]models.Service, error)
	CreateService(code, name string, baseRate float64, unit string, actor authz.Actor) (*models.Service, error)
}

type CreateUserInput struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Name     string   `json:"name" binding:"required"`
	Phone    string   `json:"phone"`
	Roles    []string `json:"roles"`
}

type userService struct {
	userRepo  repository.UserRepository
	rateRepo  repository.RateRepository
	policy    *authz.Policy
	jwtSecret string
	tokenTTL  time.Duration
}

func NewUserService(
	userRepo repository.UserRepository,
	rateRepo repository.RateRepository,
	policy *authz.Policy,
	jwtSecret string,
	tokenTTL time.Duration,
) UserService {
	return &userService{
		userRepo:  userRepo,
		rateRepo:  rateRepo,
		policy:    policy,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *userService) CreateUser(input *CreateUserInput, actor authz.Actor) (*models.User, error) {
	if !s.policy.Allow(actor, authz.ActionUserManage) {
		return nil, apperrors.PermissionDenied("tylko administrator może zarządzać użytkownikami")
	}

	if _, err := s.userRepo.GetByEmail(input.Email); err == nil {
		return nil, apperrors.Validation("użytkownik z tym adresem e-mail już istnieje")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	roles := input.Roles
	if len(roles) == 0 {
		roles = []string{models.RoleOffice}
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		Name:         input.Name,
		PhoneNumber:  input.Phone,
		Roles:        roles,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials and returns a signed JWT.
func (s *userService) Authenticate(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.PermissionDenied("nieprawidłowy e-mail lub hasło")
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, apperrors.PermissionDenied("konto zostało dezaktywowane")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.PermissionDenied("nieprawidłowy e-mail lub hasło")
	}

	now := time.Now()
	claims := &middleware.JWTClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Roles:  user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			Issuer:    "panel-firma",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, err
	}
	return signed, user, nil
}

func (s *userService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono użytkownika")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(actor authz.Actor) ([]models.User, error) {
	if !s.policy.Allow(actor, authz.ActionUserManage) {
		return nil, apperrors.PermissionDenied("tylko administrator może zarządzać użytkownikami")
	}
	return s.userRepo.GetAll()
}

func (s *userService) ListInstallers() ([]models.User, error) {
	return s.userRepo.GetByRole(models.RoleInstaller)
}

func (s *userService) SetUserRate(userID uint, serviceCode string, rate float64, actor authz.Actor) error {
	if !s.policy.Allow(actor, authz.ActionUserManage) {
		return apperrors.PermissionDenied("tylko administrator może ustawiać stawki")
	}
	if rate < 0 {
		return apperrors.Validation("stawka nie może być ujemna")
	}
	return s.rateRepo.UpsertUserServiceRate(&models.UserServiceRate{
		UserID:      userID,
		ServiceCode: serviceCode,
		CustomRate:  rate,
	})
}

func (s *userService) ListServices() ([]models.Service, error) {
	return s.rateRepo.GetAllServices()
}

func (s *userService) CreateService(code, name string, baseRate float64, unit string, actor authz.Actor) (*models.Service, error) {
	if !s.policy.Allow(actor, authz.ActionUserManage) {
		return nil, apperrors.PermissionDenied("tylko administrator może zarządzać cennikiem")
	}
	if code == "" || name == "" {
		return nil, apperrors.Validation("kod i nazwa usługi są wymagane")
	}
	if baseRate < 0 {
		return nil, apperrors.Validation("stawka nie może być ujemna")
	}
	if _, err := s.rateRepo.GetServiceByCode(code); err == nil {
		return nil, apperrors.Validation("usługa z tym kodem już istnieje")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if unit == "" {
		unit = "m2"
	}
	service := &models.Service{
		Code:              code,
		Name:              name,
		BaseInstallerRate: baseRate,
		Unit:              unit,
	}
	if err := s.rateRepo.CreateService(service); err != nil {
		return nil, err
	}
	return service, nil
}
