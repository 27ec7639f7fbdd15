package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"homecare_client/internal/models"
	"homecare_client/internal/transport"
	"homecare_client/pkg/utils"

	"github.com/tidwall/gjson"
)

// ErrMalformedLogin is returned when a 2xx login response lacks the account or token.
var ErrMalformedLogin = errors.New("login response has no account or token")

// AuthRepository wraps the account endpoints that are not plain CRUD.
type AuthRepository interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error)
	RegisterCustomer(ctx context.Context, req models.RegisterCustomerRequest) (*models.Account, error)
}

type authRepository struct {
	sender transport.Sender
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(sender transport.Sender) AuthRepository {
	return &authRepository{sender: sender}
}

// Login issues POST /api/accounts/login. The backend returns the account
// under either "user" or "account" depending on its version.
func (r *authRepository) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	resp, err := r.sender.Send(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/api/accounts/login",
		Body:   req,
	})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(AccountResource.Name, ""); err != nil {
		return nil, err
	}

	body := gjson.ParseBytes(resp.Body)
	accountJSON := body.Get("user")
	if !accountJSON.IsObject() {
		accountJSON = body.Get("account")
	}
	token := body.Get("token").String()
	if !accountJSON.IsObject() || token == "" {
		return nil, ErrMalformedLogin
	}

	var account models.Account
	if err := json.Unmarshal([]byte(accountJSON.Raw), &account); err != nil {
		return nil, fmt.Errorf("decoding login account: %w", err)
	}
	return &models.LoginResult{Account: account, Token: token}, nil
}

// registerPayload leaves out the avatar when none was given.
type registerPayload struct {
	FullName    string  `json:"fullName"`
	PhoneNumber string  `json:"phoneNumber"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

// RegisterCustomer issues POST /api/accounts/register/customer.
func (r *authRepository) RegisterCustomer(ctx context.Context, req models.RegisterCustomerRequest) (*models.Account, error) {
	resp, err := r.sender.Send(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/api/accounts/register/customer",
		Body: registerPayload{
			FullName:    req.FullName,
			PhoneNumber: req.PhoneNumber,
			Email:       req.Email,
			Password:    req.Password,
			AvatarURL:   utils.NewNullString(strings.TrimSpace(req.AvatarURL)),
		},
	})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(AccountResource.Name, ""); err != nil {
		return nil, err
	}
	account, err := decodeItem[models.Account](resp.Body)
	if err != nil {
		return nil, err
	}
	if account == nil {
		account = &models.Account{
			RoleID:      models.RoleCustomer,
			FullName:    req.FullName,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			AvatarURL:   req.AvatarURL,
		}
	}
	return account, nil
}
