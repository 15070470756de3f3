package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/diewo77/go-users/internal/apperr"
	"github.com/diewo77/go-users/internal/models"
)

// ProfileFilter selects a profile by any combination of its fields.
// Also used as a profile reference when assigning profiles to users.
type ProfileFilter struct {
	ID          uint
	Name        string
	Description string
}

func (f ProfileFilter) empty() bool {
	return f.ID == 0 && f.Name == "" && f.Description == ""
}

// ProfileInput carries the fields for profile creation.
type ProfileInput struct {
	Name        string `validate:"required"`
	Description string
}

// ProfileUpdateInput carries the optional fields for a profile update.
type ProfileUpdateInput struct {
	Name        *string
	Description *string
}

// ProfileService implements profile CRUD and the existence lookups
// consumed by the user service during profile assignment.
type ProfileService struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db, validate: validator.New()}
}

// GetAll returns every profile. An empty table is reported as NotFound.
func (s *ProfileService) GetAll(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := s.db.WithContext(ctx).Find(&profiles).Error; err != nil {
		return nil, apperr.Upstream("failed to list profiles", err)
	}
	if len(profiles) == 0 {
		return nil, apperr.New(apperr.CodeNotFound, "no profiles found")
	}
	return profiles, nil
}

// GetByParams returns the first profile matching the filter.
func (s *ProfileService) GetByParams(ctx context.Context, filter ProfileFilter) (*models.Profile, error) {
	if filter.empty() {
		return nil, apperr.New(apperr.CodeInvalidInput, "at least one filter parameter is required")
	}
	q := s.db.WithContext(ctx)
	if filter.ID != 0 {
		q = q.Where("id = ?", filter.ID)
	}
	if filter.Name != "" {
		q = q.Where("nome = ?", filter.Name)
	}
	if filter.Description != "" {
		q = q.Where("descricao = ?", filter.Description)
	}
	var profile models.Profile
	if err := q.First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "profile not found")
		}
		return nil, apperr.Upstream("failed to fetch profile", err)
	}
	return &profile, nil
}

// Create persists a new profile.
func (s *ProfileService) Create(ctx context.Context, in ProfileInput) (*models.Profile, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.New(apperr.CodeInvalidInput, "profile data is incomplete or invalid: nome is required")
	}
	profile := models.Profile{Name: in.Name, Description: in.Description}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, apperr.Upstream("failed to create profile", err)
	}
	return &profile, nil
}

// Update applies the supplied fields to an existing profile.
func (s *ProfileService) Update(ctx context.Context, id uint, in ProfileUpdateInput) (*models.Profile, error) {
	if id == 0 || (in.Name == nil && in.Description == nil) {
		return nil, apperr.New(apperr.CodeInvalidInput, "profile data or id is invalid")
	}
	values := map[string]any{}
	if in.Name != nil {
		values["nome"] = *in.Name
	}
	if in.Description != nil {
		values["descricao"] = *in.Description
	}
	res := s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return nil, apperr.Upstream("failed to update profile", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Newf(apperr.CodeNotFound, "no profile found with id %d to update", id)
	}
	return s.GetByParams(ctx, ProfileFilter{ID: id})
}

// Delete removes a profile and returns a confirmation message.
// Assignment rows referencing it are removed by the database cascade.
func (s *ProfileService) Delete(ctx context.Context, id uint) (string, error) {
	if id == 0 {
		return "", apperr.New(apperr.CodeInvalidInput, "profile id is required")
	}
	res := s.db.WithContext(ctx).Delete(&models.Profile{}, id)
	if res.Error != nil {
		return "", apperr.Upstream("failed to delete profile", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", apperr.Newf(apperr.CodeNotFound, "no profile found with id %d to delete", id)
	}
	return fmt.Sprintf("Profile with id %d was deleted successfully.", id), nil
}

// Count returns the total number of profiles.
func (s *ProfileService) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Profile{}).Count(&n).Error; err != nil {
		return 0, apperr.Upstream("failed to count profiles", err)
	}
	return n, nil
}

// ResolveRefs resolves profile references to their ids, failing with
// NotFound on the first reference that does not resolve. Callers run
// this before any user write to avoid creating orphaned rows.
func (s *ProfileService) ResolveRefs(ctx context.Context, refs []ProfileFilter) ([]uint, error) {
	ids := make([]uint, 0, len(refs))
	for _, ref := range refs {
		profile, err := s.GetByParams(ctx, ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, profile.ID)
	}
	return ids, nil
}
