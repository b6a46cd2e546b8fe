// Package accounts implements registration, login, and user administration
// for the simulator.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codeup/statio-portal/internal/portal"
	"github.com/codeup/statio-portal/internal/sim/audit"
	simauth "github.com/codeup/statio-portal/internal/sim/auth"
	"github.com/codeup/statio-portal/pkg/config"
	"github.com/codeup/statio-portal/pkg/db"
	"github.com/codeup/statio-portal/pkg/db/models"
	"github.com/codeup/statio-portal/pkg/enums"
	pkgerrors "github.com/codeup/statio-portal/pkg/errors"
	"github.com/codeup/statio-portal/pkg/logger"
	"github.com/codeup/statio-portal/pkg/pagination"
	"github.com/codeup/statio-portal/pkg/security"
)

type Service struct {
	db    *gorm.DB
	jwt   config.JWTConfig
	pass  config.PasswordConfig
	audit *audit.Recorder
	logg  *logger.Logger
	now   func() time.Time
}

// Params configures a Service.
type Params struct {
	DB       *gorm.DB
	JWT      config.JWTConfig
	Password config.PasswordConfig
	Audit    *audit.Recorder
	Logger   *logger.Logger
	Clock    func() time.Time
}

func NewService(p Params) (*Service, error) {
	if p.DB == nil {
		return nil, fmt.Errorf("db handle required")
	}
	if p.Audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	now := p.Clock
	if now == nil {
		now = time.Now
	}
	return &Service{
		db:    p.DB,
		jwt:   p.JWT,
		pass:  p.Password,
		audit: p.Audit,
		logg:  p.Logger,
		now:   now,
	}, nil
}

// Register creates a USER account and logs it in.
func (s *Service) Register(ctx context.Context, req portal.RegisterRequest) (*portal.AuthResponse, error) {
	user, err := s.createUser(ctx, req.FullName, req.Email, req.Password, enums.RoleUser)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &user.ID, user.Email, enums.ActivityUserCreated, "registered via portal")
	return s.issueToken(ctx, user)
}

// Login verifies credentials and issues a token. Inactive accounts and
// unknown emails both come back as bad credentials.
func (s *Service) Login(ctx context.Context, req portal.LoginRequest) (*portal.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find user")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	loginAt := s.now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", loginAt).Error; err == nil {
		user.LastLoginAt = &loginAt
	}

	s.audit.Record(ctx, &user.ID, user.Email, enums.ActivityUserLogin, "")
	return s.issueToken(ctx, &user)
}

// Get returns one account by id.
func (s *Service) Get(ctx context.Context, id string) (*portal.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(*user)
	return &dto, nil
}

// List returns accounts in pages, newest first.
func (s *Service) List(ctx context.Context, params pagination.Params) (*pagination.Page[portal.User], error) {
	params = params.Normalize()

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}

	var rows []models.User
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Size).
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	items := make([]portal.User, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToDTO(row))
	}
	page := pagination.NewPage(items, params, total)
	return &page, nil
}

// Create adds an account with the given role on behalf of an operator.
func (s *Service) Create(ctx context.Context, req portal.CreateUserRequest, role enums.Role) (*portal.User, error) {
	user, err := s.createUser(ctx, req.FullName, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &user.ID, user.Email, enums.ActivityUserCreated, fmt.Sprintf("created with role %s", role))
	dto := ToDTO(*user)
	return &dto, nil
}

// Update changes name and/or email.
func (s *Service) Update(ctx context.Context, id string, req portal.UpdateUserRequest) (*portal.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.Email != "" {
		updates["email"] = normalizeEmail(req.Email)
	}
	if len(updates) == 0 {
		dto := ToDTO(*user)
		return &dto, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		if db.IsUniqueViolation(err, "email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}

	return s.Get(ctx, id)
}

// SetActive toggles whether the account can log in.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (*portal.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(user).Update("is_active", active).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user status")
	}

	return s.Get(ctx, id)
}

// Delete removes the account.
func (s *Service) Delete(ctx context.Context, id string) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(user).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}

	s.audit.Record(ctx, &user.ID, user.Email, enums.ActivityUserDeleted, "")
	return nil
}

func (s *Service) createUser(ctx context.Context, fullName, email, password string, role enums.Role) (*models.User, error) {
	hash, err := security.HashPassword(password, s.pass)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := models.User{
		ID:           uuid.New(),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
		Role:         role,
		IsActive:     true,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if db.IsUniqueViolation(err, "email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return &user, nil
}

func (s *Service) issueToken(ctx context.Context, user *models.User) (*portal.AuthResponse, error) {
	signed, err := simauth.MintToken(s.jwt, s.now(), simauth.TokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	return &portal.AuthResponse{
		Token: signed,
		User:  ToDTO(*user),
	}, nil
}

func (s *Service) find(ctx context.Context, id string) (*models.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user id")
	}

	var user models.User
	err = s.db.WithContext(ctx).Where("id = ?", parsed).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find user")
	}
	return &user, nil
}

// ToDTO projects the model onto the wire shape.
func ToDTO(user models.User) portal.User {
	return portal.User{
		ID:        user.ID.String(),
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
