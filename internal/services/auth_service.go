package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"homecare_client/internal/apperrors"
	"homecare_client/internal/models"
	"homecare_client/internal/repositories"
	"homecare_client/pkg/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrInvalidCredentials = errors.New("invalid email/phone or password")
	ErrAccountInactive    = errors.New("account is not active")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

const minPasswordLength = 6

// --- Data Transfer Objects (DTOs) ---

// AuthResponse is returned by Login. Offline sessions carry no upstream token.
type AuthResponse struct {
	Account     models.Account `json:"account"`
	AccessToken string         `json:"accessToken"`
	Offline     bool           `json:"offline"`
}

// OfflineAccount is a login accepted while the backend is unreachable.
type OfflineAccount struct {
	models.Account
	PasswordHash string `json:"passwordHash"`
}

// LoadOfflineAccounts reads a JSON array of OfflineAccount. An empty path
// yields no accounts.
func LoadOfflineAccounts(path string) ([]OfflineAccount, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read offline accounts file %s: %w", path, err)
	}
	var accounts []OfflineAccount
	if err := json.Unmarshal(content, &accounts); err != nil {
		return nil, fmt.Errorf("could not parse offline accounts file %s: %w", path, err)
	}
	for _, a := range accounts {
		if _, err := bcrypt.Cost([]byte(a.PasswordHash)); err != nil {
			return nil, fmt.Errorf("offline account %d has no valid bcrypt hash: %w", a.AccountID, err)
		}
	}
	return accounts, nil
}

// --- AuthService Interface ---
type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (*Result[AuthResponse], error)
	RegisterCustomer(ctx context.Context, req models.RegisterCustomerRequest) (*models.Account, error)
}

// --- authService Implementation ---
type authService struct {
	authRepo repositories.AuthRepository
	offline  []OfflineAccount
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(authRepo repositories.AuthRepository, offline []OfflineAccount) AuthService {
	return &authService{authRepo: authRepo, offline: offline}
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*Result[AuthResponse], error) {
	req.EmailOrPhoneNumber = strings.TrimSpace(req.EmailOrPhoneNumber)
	if utils.IsEmpty(req.EmailOrPhoneNumber) {
		return nil, apperrors.NewValidationError("emailOrPhoneNumber", "is required")
	}
	if utils.IsEmpty(req.Password) {
		return nil, apperrors.NewValidationError("password", "is required")
	}

	res, err := s.authRepo.Login(ctx, req)
	if err != nil {
		if apperrors.IsOffline(err) {
			return s.offlineLogin(req, err)
		}
		if isCredentialRejection(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if res.Account.Status != "" && !strings.EqualFold(res.Account.Status, "active") {
		return nil, ErrAccountInactive
	}

	token, err := utils.GenerateAccessToken(res.Account.AccountID, res.Account.RoleID, res.Account.FullName, res.Token, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	log.Info().Int64("account_id", res.Account.AccountID).Int64("role_id", res.Account.RoleID).Msg("Login succeeded")
	return fresh(AuthResponse{Account: res.Account, AccessToken: token}), nil
}

// offlineLogin matches req against the configured offline accounts. When no
// account matches, the original upstream error is returned.
func (s *authService) offlineLogin(req models.LoginRequest, upstreamErr error) (*Result[AuthResponse], error) {
	for _, a := range s.offline {
		if !strings.EqualFold(a.Email, req.EmailOrPhoneNumber) && a.PhoneNumber != req.EmailOrPhoneNumber {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
			return nil, ErrInvalidCredentials
		}
		token, err := utils.GenerateAccessToken(a.AccountID, a.RoleID, a.FullName, "", true)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
		}
		log.Warn().Err(upstreamErr).Int64("account_id", a.AccountID).Msg("Backend unreachable, offline login used")
		return fallback(AuthResponse{Account: a.Account, AccessToken: token, Offline: true}), nil
	}
	return nil, upstreamErr
}

func isCredentialRejection(err error) bool {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) || apperrors.IsNotFound(err) {
		return true
	}
	var httpErr *apperrors.HTTPError
	return errors.As(err, &httpErr) &&
		(httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden)
}

func (s *authService) RegisterCustomer(ctx context.Context, req models.RegisterCustomerRequest) (*models.Account, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)

	switch {
	case utils.IsEmpty(req.FullName):
		return nil, apperrors.NewValidationError("fullName", "is required")
	case !utils.IsValidEmail(req.Email):
		return nil, apperrors.NewValidationError("email", "is not a valid email address")
	case !utils.IsValidPhone(req.PhoneNumber):
		return nil, apperrors.NewValidationError("phoneNumber", "must be 10 digits starting with 0")
	case !utils.IsValidPasswordLength(req.Password, minPasswordLength):
		return nil, apperrors.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	account, err := s.authRepo.RegisterCustomer(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("registering customer: %w", err)
	}
	log.Info().Str("email", req.Email).Msg("Customer registered")
	return account, nil
}
