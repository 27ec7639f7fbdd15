package services

import (
	"context"
	"errors"
	"fmt"

	"homecare_client/internal/models"
	"homecare_client/internal/repositories"
)

// ErrAccountNotFound is returned when the session account no longer exists.
var ErrAccountNotFound = errors.New("account not found")

// AccountProfile is an account with its role name resolved.
type AccountProfile struct {
	models.Account
	RoleName string `json:"roleName"`
}

type AccountService interface {
	Me(ctx context.Context, accountID int64) (*AccountProfile, error)
}

type accountService struct {
	accounts repositories.ResourceRepository[models.Account]
	roles    repositories.ResourceRepository[models.Role]
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(accounts repositories.ResourceRepository[models.Account], roles repositories.ResourceRepository[models.Role]) AccountService {
	return &accountService{accounts: accounts, roles: roles}
}

// Me loads the session account. A missing role record leaves RoleName empty.
func (s *accountService) Me(ctx context.Context, accountID int64) (*AccountProfile, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrAccountNotFound, accountID)
		}
		return nil, err
	}
	profile := &AccountProfile{Account: *account}
	role, err := s.roles.GetByID(ctx, account.RoleID)
	switch {
	case err == nil:
		profile.RoleName = role.RoleName
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("loading role %d: %w", account.RoleID, err)
	}
	return profile, nil
}
