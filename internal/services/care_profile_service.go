package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homecare_client/internal/apperrors"
	"homecare_client/internal/models"
	"homecare_client/internal/repositories"
	"homecare_client/pkg/utils"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// --- Custom Service Errors for Care Profiles ---
var (
	ErrRelativeNotFound = errors.New("relative not found")
	ErrZoneNotFound     = errors.New("zone not found")
)

const profileStatusActive = "active"

// --- Care Profile DTOs ---

// CareProfileRequest is the create/edit form of a care profile.
type CareProfileRequest struct {
	ProfileName  string `json:"profileName" binding:"required"`
	ZoneDetailID int64  `json:"zoneDetailID" binding:"required"`
	DateOfBirth  string `json:"dateOfBirth"`
	PhoneNumber  string `json:"phoneNumber"`
	Address      string `json:"address"`
	Image        string `json:"image"`
	Note         string `json:"note"`
}

// RelativeRequest is the create/edit form of a relative.
type RelativeRequest struct {
	RelativeName string `json:"relativeName" binding:"required"`
	DateOfBirth  string `json:"dateOfBirth"`
	Gender       string `json:"gender"`
}

type careProfilePayload struct {
	AccountID    int64   `json:"accountID"`
	ZoneDetailID int64   `json:"zoneDetailID"`
	ProfileName  string  `json:"profileName"`
	DateOfBirth  *string `json:"dateOfBirth,omitempty"`
	PhoneNumber  *string `json:"phoneNumber,omitempty"`
	Address      *string `json:"address,omitempty"`
	Image        *string `json:"image,omitempty"`
	Note         *string `json:"note,omitempty"`
	Status       string  `json:"status"`
}

type relativePayload struct {
	CareProfileID int64   `json:"careProfileID"`
	RelativeName  string  `json:"relativeName"`
	DateOfBirth   *string `json:"dateOfBirth,omitempty"`
	Gender        *string `json:"gender,omitempty"`
	Status        string  `json:"status"`
}

// CareProfileView is a care profile with its zone name and relatives.
type CareProfileView struct {
	models.CareProfile
	ZoneName  string            `json:"zoneName"`
	Relatives []models.Relative `json:"relatives"`
}

// --- CareProfileService Interface ---

// CareProfileService methods take the acting account; accountID 0 skips the
// ownership check and is reserved for staff roles.
type CareProfileService interface {
	ListCareProfiles(ctx context.Context, accountID int64) ([]CareProfileView, error)
	CreateCareProfile(ctx context.Context, accountID int64, req CareProfileRequest) (*models.CareProfile, error)
	UpdateCareProfile(ctx context.Context, accountID, careProfileID int64, req CareProfileRequest) (*models.CareProfile, error)
	DeleteCareProfile(ctx context.Context, accountID, careProfileID int64) error
	AddRelative(ctx context.Context, accountID, careProfileID int64, req RelativeRequest) (*models.Relative, error)
	UpdateRelative(ctx context.Context, accountID, relativeID int64, req RelativeRequest) (*models.Relative, error)
	DeleteRelative(ctx context.Context, accountID, relativeID int64) error
	ListZones(ctx context.Context) ([]models.ZoneDetail, error)
}

type careProfileService struct {
	profiles  repositories.ResourceRepository[models.CareProfile]
	relatives repositories.ResourceRepository[models.Relative]
	zones     repositories.ResourceRepository[models.ZoneDetail]
}

// NewCareProfileService creates a new instance of CareProfileService.
func NewCareProfileService(
	profiles repositories.ResourceRepository[models.CareProfile],
	relatives repositories.ResourceRepository[models.Relative],
	zones repositories.ResourceRepository[models.ZoneDetail],
) CareProfileService {
	return &careProfileService{profiles: profiles, relatives: relatives, zones: zones}
}

func (s *careProfileService) ListCareProfiles(ctx context.Context, accountID int64) ([]CareProfileView, error) {
	var (
		profiles  []models.CareProfile
		zones     []models.ZoneDetail
		relatives []models.Relative
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profiles, err = s.profiles.GetByForeignKey(gctx, "accountID", accountID)
		return err
	})
	g.Go(func() (err error) {
		zones, err = s.zones.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		relatives, err = s.relatives.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading care profiles: %w", err)
	}

	zoneNames := lo.SliceToMap(zones, func(z models.ZoneDetail) (int64, string) { return z.ZoneDetailID, z.Name })
	byProfile := lo.GroupBy(relatives, func(r models.Relative) int64 { return r.CareProfileID })

	views := make([]CareProfileView, 0, len(profiles))
	for _, p := range profiles {
		rel := byProfile[p.CareProfileID]
		if rel == nil {
			rel = []models.Relative{}
		}
		views = append(views, CareProfileView{CareProfile: p, ZoneName: zoneNames[p.ZoneDetailID], Relatives: rel})
	}
	return views, nil
}

func (s *careProfileService) validateProfile(ctx context.Context, req *CareProfileRequest) error {
	req.ProfileName = strings.TrimSpace(req.ProfileName)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if utils.IsEmpty(req.ProfileName) {
		return apperrors.NewValidationError("profileName", "is required")
	}
	if req.PhoneNumber != "" && !utils.IsValidPhone(req.PhoneNumber) {
		return apperrors.NewValidationError("phoneNumber", "must be 10 digits starting with 0")
	}
	if _, err := s.zones.GetByID(ctx, req.ZoneDetailID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: ID %d", ErrZoneNotFound, req.ZoneDetailID)
		}
		return fmt.Errorf("failed to validate zone: %w", err)
	}
	return nil
}

func newCareProfilePayload(accountID int64, status string, req CareProfileRequest) careProfilePayload {
	return careProfilePayload{
		AccountID:    accountID,
		ZoneDetailID: req.ZoneDetailID,
		ProfileName:  req.ProfileName,
		DateOfBirth:  utils.NewNullString(req.DateOfBirth),
		PhoneNumber:  utils.NewNullString(req.PhoneNumber),
		Address:      utils.NewNullString(req.Address),
		Image:        utils.NewNullString(req.Image),
		Note:         utils.NewNullString(req.Note),
		Status:       status,
	}
}

func (p careProfilePayload) profile(id int64) *models.CareProfile {
	return &models.CareProfile{
		CareProfileID: id,
		AccountID:     p.AccountID,
		ZoneDetailID:  p.ZoneDetailID,
		ProfileName:   p.ProfileName,
		DateOfBirth:   lo.FromPtr(p.DateOfBirth),
		PhoneNumber:   lo.FromPtr(p.PhoneNumber),
		Address:       lo.FromPtr(p.Address),
		Image:         lo.FromPtr(p.Image),
		Note:          lo.FromPtr(p.Note),
		Status:        p.Status,
	}
}

func (s *careProfileService) CreateCareProfile(ctx context.Context, accountID int64, req CareProfileRequest) (*models.CareProfile, error) {
	if accountID == 0 {
		return nil, apperrors.NewValidationError("accountID", "a care profile must belong to an account")
	}
	if err := s.validateProfile(ctx, &req); err != nil {
		return nil, err
	}
	payload := newCareProfilePayload(accountID, profileStatusActive, req)
	created, err := s.profiles.Create(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("creating care profile: %w", err)
	}
	if created == nil {
		created = payload.profile(0)
	}
	log.Info().Int64("account_id", accountID).Int64("care_profile_id", created.CareProfileID).Msg("Care profile created")
	return created, nil
}

// ownedProfile loads a care profile and checks it belongs to accountID.
func (s *careProfileService) ownedProfile(ctx context.Context, accountID, careProfileID int64) (*models.CareProfile, error) {
	profile, err := s.profiles.GetByID(ctx, careProfileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrCareProfileNotFound, careProfileID)
		}
		return nil, err
	}
	if accountID != 0 && profile.AccountID != accountID {
		return nil, fmt.Errorf("%w: ID %d", ErrCareProfileNotFound, careProfileID)
	}
	return profile, nil
}

func (s *careProfileService) UpdateCareProfile(ctx context.Context, accountID, careProfileID int64, req CareProfileRequest) (*models.CareProfile, error) {
	existing, err := s.ownedProfile(ctx, accountID, careProfileID)
	if err != nil {
		return nil, err
	}
	if err := s.validateProfile(ctx, &req); err != nil {
		return nil, err
	}
	status := existing.Status
	if status == "" {
		status = profileStatusActive
	}
	payload := newCareProfilePayload(existing.AccountID, status, req)
	updated, err := s.profiles.Update(ctx, careProfileID, payload)
	if err != nil {
		return nil, fmt.Errorf("updating care profile %d: %w", careProfileID, err)
	}
	if updated == nil {
		updated = payload.profile(careProfileID)
	}
	return updated, nil
}

func (s *careProfileService) DeleteCareProfile(ctx context.Context, accountID, careProfileID int64) error {
	if _, err := s.ownedProfile(ctx, accountID, careProfileID); err != nil {
		return err
	}
	if err := s.profiles.Delete(ctx, careProfileID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: ID %d", ErrCareProfileNotFound, careProfileID)
		}
		return fmt.Errorf("deleting care profile %d: %w", careProfileID, err)
	}
	log.Info().Int64("care_profile_id", careProfileID).Msg("Care profile deleted")
	return nil
}

func validateRelative(req *RelativeRequest) error {
	req.RelativeName = strings.TrimSpace(req.RelativeName)
	if utils.IsEmpty(req.RelativeName) {
		return apperrors.NewValidationError("relativeName", "is required")
	}
	return nil
}

func newRelativePayload(careProfileID int64, req RelativeRequest) relativePayload {
	return relativePayload{
		CareProfileID: careProfileID,
		RelativeName:  req.RelativeName,
		DateOfBirth:   utils.NewNullString(req.DateOfBirth),
		Gender:        utils.NewNullString(req.Gender),
		Status:        profileStatusActive,
	}
}

func (p relativePayload) relative(id int64) *models.Relative {
	return &models.Relative{
		RelativeID:    id,
		CareProfileID: p.CareProfileID,
		RelativeName:  p.RelativeName,
		DateOfBirth:   lo.FromPtr(p.DateOfBirth),
		Gender:        lo.FromPtr(p.Gender),
		Status:        p.Status,
	}
}

func (s *careProfileService) AddRelative(ctx context.Context, accountID, careProfileID int64, req RelativeRequest) (*models.Relative, error) {
	if err := validateRelative(&req); err != nil {
		return nil, err
	}
	if _, err := s.ownedProfile(ctx, accountID, careProfileID); err != nil {
		return nil, err
	}
	payload := newRelativePayload(careProfileID, req)
	created, err := s.relatives.Create(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("creating relative: %w", err)
	}
	if created == nil {
		created = payload.relative(0)
	}
	return created, nil
}

// ownedRelative loads a relative and checks its care profile belongs to accountID.
func (s *careProfileService) ownedRelative(ctx context.Context, accountID, relativeID int64) (*models.Relative, error) {
	relative, err := s.relatives.GetByID(ctx, relativeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrRelativeNotFound, relativeID)
		}
		return nil, err
	}
	if _, err := s.ownedProfile(ctx, accountID, relative.CareProfileID); err != nil {
		if errors.Is(err, ErrCareProfileNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrRelativeNotFound, relativeID)
		}
		return nil, err
	}
	return relative, nil
}

func (s *careProfileService) UpdateRelative(ctx context.Context, accountID, relativeID int64, req RelativeRequest) (*models.Relative, error) {
	if err := validateRelative(&req); err != nil {
		return nil, err
	}
	existing, err := s.ownedRelative(ctx, accountID, relativeID)
	if err != nil {
		return nil, err
	}
	payload := newRelativePayload(existing.CareProfileID, req)
	updated, err := s.relatives.Update(ctx, relativeID, payload)
	if err != nil {
		return nil, fmt.Errorf("updating relative %d: %w", relativeID, err)
	}
	if updated == nil {
		updated = payload.relative(relativeID)
	}
	return updated, nil
}

func (s *careProfileService) DeleteRelative(ctx context.Context, accountID, relativeID int64) error {
	if _, err := s.ownedRelative(ctx, accountID, relativeID); err != nil {
		return err
	}
	if err := s.relatives.Delete(ctx, relativeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: ID %d", ErrRelativeNotFound, relativeID)
		}
		return fmt.Errorf("deleting relative %d: %w", relativeID, err)
	}
	return nil
}

func (s *careProfileService) ListZones(ctx context.Context) ([]models.ZoneDetail, error) {
	zones, err := s.zones.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading zones: %w", err)
	}
	return zones, nil
}
