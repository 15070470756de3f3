package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/diewo77/go-users/internal/apperr"
	"github.com/diewo77/go-users/internal/auth"
	"github.com/diewo77/go-users/internal/models"
)

// UserFilter selects a user by any combination of its fields.
type UserFilter struct {
	ID    uint
	Name  string
	Email string
}

func (f UserFilter) empty() bool {
	return f.ID == 0 && f.Name == "" && f.Email == ""
}

// CreateUserInput carries the fields for user creation. Profiles are
// references resolved against existing profiles before any write.
type CreateUserInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Profiles []ProfileFilter
}

// UpdateUserInput carries the optional fields for a user update.
// Active and Profiles are applied only when the caller is an admin.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Active   *bool
	Profiles []ProfileFilter
}

func (in UpdateUserInput) empty() bool {
	return in.Name == nil && in.Email == nil && in.Password == nil &&
		in.Active == nil && in.Profiles == nil
}

// SignUpInput carries the self-service registration fields.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput carries the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// AuthenticatedUser is the transient projection returned by login:
// the user identity, its profile set and a freshly issued token.
// Never persisted; the password hash is never part of it.
type AuthenticatedUser struct {
	ID        uint             `json:"id"`
	Name      string           `json:"nome"`
	Email     string           `json:"email"`
	Active    bool             `json:"ativo"`
	Profiles  []models.Profile `json:"perfis"`
	Token     string           `json:"token"`
	IssuedAt  int64            `json:"iat"`
	ExpiresAt int64            `json:"exp"`
}

// Metrics aggregates the user and profile counts.
type Metrics struct {
	TotalUsers    int64 `json:"totalUsers"`
	ActiveUsers   int64 `json:"activeUsers"`
	InactiveUsers int64 `json:"inactiveUsers"`
	TotalProfiles int64 `json:"totalProfiles"`
}

// UserService orchestrates user writes together with their profile
// assignments as single consistent operations, independent of transport.
// Multi-step writes run inside one transaction so a failure partway
// through leaves no partial row.
type UserService struct {
	db       *gorm.DB
	hasher   Hasher
	tokens   *auth.TokenService
	profiles *ProfileService
	validate *validator.Validate
}

func NewUserService(db *gorm.DB, hasher Hasher, tokens *auth.TokenService, profiles *ProfileService) *UserService {
	return &UserService{db: db, hasher: hasher, tokens: tokens, profiles: profiles, validate: validator.New()}
}

// GetAll returns every user. An empty table is reported as NotFound.
func (s *UserService) GetAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, apperr.Upstream("failed to list users", err)
	}
	if len(users) == 0 {
		return nil, apperr.New(apperr.CodeNotFound, "no users found")
	}
	return users, nil
}

// GetByParams returns the first user matching the filter.
func (s *UserService) GetByParams(ctx context.Context, filter UserFilter) (*models.User, error) {
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
	if filter.Email != "" {
		q = q.Where("email = ?", filter.Email)
	}
	var user models.User
	if err := q.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "user not found")
		}
		return nil, apperr.Upstream("failed to fetch user", err)
	}
	return &user, nil
}

// Create persists a new user together with its profile assignments.
// Profile references are resolved before any write so a bad reference
// never leaves an orphaned user; the user insert and the assignment
// inserts share one transaction.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.New(apperr.CodeInvalidInput, "user data is incomplete or invalid: nome, email and senha are required")
	}

	profileIDs, err := s.profiles.ResolveRefs(ctx, in.Profiles)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Upstream("failed to hash password", err)
	}

	user := models.User{Name: in.Name, Email: in.Email, Password: hash, Active: true}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return apperr.Upstream("failed to create user", err)
		}
		return assignProfiles(tx, user.ID, profileIDs)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update merges the supplied fields into an existing user. Ordinary
// fields (nome, email, senha) apply to any caller that passed the
// access guard; ativo and profile reassignment are admin-only and are
// silently ignored for non-admin callers. The row update and the
// assignment replacement share one transaction.
func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput, callerProfiles []auth.ProfileClaim) (*models.User, error) {
	if id == 0 || in.empty() {
		return nil, apperr.New(apperr.CodeInvalidInput, "user data or id is invalid")
	}

	existing, err := s.GetByParams(ctx, UserFilter{ID: id})
	if err != nil {
		return nil, err
	}

	isAdmin := false
	for _, p := range callerProfiles {
		if p.Name == models.AdminProfileName {
			isAdmin = true
			break
		}
	}

	values := map[string]any{"data_update": time.Now()}
	if in.Name != nil {
		values["nome"] = *in.Name
	}
	if in.Email != nil {
		values["email"] = *in.Email
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, apperr.Upstream("failed to hash password", err)
		}
		values["senha"] = hash
	}
	if isAdmin && in.Active != nil {
		values["ativo"] = *in.Active
	}

	var profileIDs []uint
	replaceProfiles := isAdmin && len(in.Profiles) > 0
	if replaceProfiles {
		profileIDs, err = s.profiles.ResolveRefs(ctx, in.Profiles)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", id).Updates(values)
		if res.Error != nil {
			return apperr.Upstream("failed to update user", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.Newf(apperr.CodeNoModification, "user with id %d exists, but no modification was applied", existing.ID)
		}
		if !replaceProfiles {
			return nil
		}
		// Replace, never merge: the old set is fully removed first.
		if err := tx.Where("usuario_id = ?", id).Delete(&models.UserProfile{}).Error; err != nil {
			return apperr.Upstream("failed to remove profile assignments", err)
		}
		return assignProfiles(tx, id, profileIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByParams(ctx, UserFilter{ID: id})
}

// Delete removes a user and returns a confirmation message. Assignment
// rows are removed by the database cascade, not orchestrated here.
func (s *UserService) Delete(ctx context.Context, id uint) (string, error) {
	if id == 0 {
		return "", apperr.New(apperr.CodeInvalidInput, "user id is required")
	}
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return "", apperr.Upstream("failed to delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", apperr.Newf(apperr.CodeNotFound, "no user found with id %d to delete", id)
	}
	return fmt.Sprintf("User with id %d was deleted successfully.", id), nil
}

// SignUp is a restricted Create: the profile set is forced to exactly
// the default non-admin profile, regardless of caller input.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	return s.Create(ctx, CreateUserInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Profiles: []ProfileFilter{{Name: models.DefaultProfileName}},
	})
}

// Login verifies the credentials and issues an authenticated projection.
// An unknown email and a wrong password produce the same error, so the
// response never reveals which one was wrong.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthenticatedUser, error) {
	if in.Email == "" {
		return nil, apperr.New(apperr.CodeInvalidInput, "email is required")
	}
	user, err := s.GetByParams(ctx, UserFilter{Email: in.Email})
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}
	if err := s.hasher.Compare(user.Password, in.Password); err != nil {
		return nil, invalidCredentials()
	}
	return s.Authenticated(ctx, user)
}

func invalidCredentials() error {
	return apperr.New(apperr.CodeInvalidCredentials, "invalid email or password")
}

// Authenticated issues a token for the user and its current profile set.
func (s *UserService) Authenticated(ctx context.Context, user *models.User) (*AuthenticatedUser, error) {
	profiles, err := s.Profiles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	token, issuedAt, expiresAt, err := s.tokens.Issue(user, profiles)
	if err != nil {
		return nil, err
	}
	return &AuthenticatedUser{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Active:    user.Active,
		Profiles:  profiles,
		Token:     token,
		IssuedAt:  issuedAt.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

// Profiles returns the profile set currently assigned to a user.
func (s *UserService) Profiles(ctx context.Context, userID uint) ([]models.Profile, error) {
	if userID == 0 {
		return nil, apperr.New(apperr.CodeInvalidInput, "user id is required")
	}
	var profiles []models.Profile
	err := s.db.WithContext(ctx).Model(&models.Profile{}).
		Joins("JOIN usuarios_perfis ON usuarios_perfis.perfil_id = perfis.id").
		Where("usuarios_perfis.usuario_id = ?", userID).
		Find(&profiles).Error
	if err != nil {
		return nil, apperr.Upstream("failed to fetch user profiles", err)
	}
	return profiles, nil
}

// Metrics runs the four counting queries concurrently and fails as a
// whole if any sub-count fails; no partial metrics are returned.
func (s *UserService) Metrics(ctx context.Context) (*Metrics, error) {
	var m Metrics
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.User{}).Count(&m.TotalUsers).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.User{}).Where("ativo = ?", true).Count(&m.ActiveUsers).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.User{}).Where("ativo = ?", false).Count(&m.InactiveUsers).Error
	})
	g.Go(func() error {
		n, err := s.profiles.Count(gctx)
		m.TotalProfiles = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Upstream("failed to load metrics", err)
	}
	return &m, nil
}

// assignProfiles inserts one assignment row per profile id. An insert
// reporting no effect aborts with AssignmentFailed, rolling back the
// enclosing transaction.
func assignProfiles(tx *gorm.DB, userID uint, profileIDs []uint) error {
	for _, pid := range profileIDs {
		res := tx.Create(&models.UserProfile{UserID: userID, ProfileID: pid})
		if res.Error != nil {
			return apperr.Upstream("failed to assign profile to user", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.CodeAssignmentFailed, "failed to assign profiles to user")
		}
	}
	return nil
}
