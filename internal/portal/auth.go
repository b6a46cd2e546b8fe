package portal

import (
	"context"

	"github.com/codeup/statio-portal/internal/api"
	"github.com/codeup/statio-portal/internal/session"
	pkgerrors "github.com/codeup/statio-portal/pkg/errors"
	"github.com/codeup/statio-portal/pkg/logger"
	"github.com/codeup/statio-portal/pkg/token"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AuthService drives login, registration, and logout, and seeds the session
// store from successful responses.
type AuthService struct {
	client   *api.Client
	sessions *session.Store
	logg     *logger.Logger
}

func NewAuthService(client *api.Client, sessions *session.Store, logg *logger.Logger) *AuthService {
	return &AuthService{client: client, sessions: sessions, logg: logg}
}

// Login exchanges credentials for a token and installs the session. The
// response is rejected when the token fails validity or carries no role,
// regardless of HTTP status.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid login input")
	}

	var resp AuthResponse
	if err := s.client.Post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return s.accept(ctx, &resp)
}

// Register creates an account and installs the session like Login.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid registration input")
	}

	var resp AuthResponse
	if err := s.client.Post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return s.accept(ctx, &resp)
}

// Logout tears the client session down. Purely local; the token simply stops
// being presented.
func (s *AuthService) Logout(ctx context.Context) {
	s.sessions.Logout(ctx)
}

// accept validates the issued token and seeds the session. The user's role
// is overwritten with the token's role claim so downstream display code and
// authorization agree on one source.
func (s *AuthService) accept(ctx context.Context, resp *AuthResponse) (*AuthResponse, error) {
	if !token.IsValid(resp.Token) {
		s.logg.Warn(ctx, "server returned an invalid or expired token")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "received invalid token from server")
	}

	role := token.Role(resp.Token)
	if role == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "received token without role")
	}
	resp.User.Role = role

	profile := session.Profile{
		ID:       resp.User.ID,
		Email:    resp.User.Email,
		FullName: resp.User.FullName,
	}
	if err := s.sessions.SetAuth(ctx, resp.Token, profile); err != nil {
		return nil, err
	}
	return resp, nil
}
