package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicore/portal-api/internal/email"
	"github.com/clinicore/portal-api/internal/model"
	"github.com/clinicore/portal-api/internal/repository"
	"github.com/clinicore/portal-api/pkg/auth"
	"github.com/clinicore/portal-api/pkg/logger"
	"github.com/clinicore/portal-api/pkg/messaging"
)

// User-facing authentication errors. Surfaced verbatim, never retried.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

const bcryptCost = 12

type Service struct {
	users    repository.AuthUserRepository
	profiles repository.ProfileRepository
	roles    repository.RoleRepository
	jwtSvc   auth.JWTService
	broker   messaging.Broker
	emailSvc email.Service
	logger   *logger.Logger
}

func NewService(users repository.AuthUserRepository, profiles repository.ProfileRepository,
	roles repository.RoleRepository, jwtSvc auth.JWTService, broker messaging.Broker,
	emailSvc email.Service, l *logger.Logger) *Service {
	return &Service{
		users:    users,
		profiles: profiles,
		roles:    roles,
		jwtSvc:   jwtSvc,
		broker:   broker,
		emailSvc: emailSvc,
		logger:   l,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, *model.Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokens(user.ID, user.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	sess := &model.Session{UserID: user.ID, Email: user.Email}
	s.publishSessionEvent(ctx, model.SessionSignedIn, sess)

	return tokens, sess, nil
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, *model.Session, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.AuthUser{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	profile := &model.Profile{
		UserID: user.ID,
		Name:   req.Name,
		Email:  req.Email,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, nil, fmt.Errorf("failed to create profile: %w", err)
	}

	role := req.Role
	if !role.Valid() {
		role = model.RolePatient
	}
	if err := s.roles.Assign(ctx, user.ID, role); err != nil {
		return nil, nil, fmt.Errorf("failed to assign role: %w", err)
	}

	tokens, err := s.generateTokens(user.ID, user.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.emailSvc.SendWelcome(ctx, user.Email, req.Name); err != nil {
		s.logger.Error(err, "failed to send welcome email", "email", user.Email)
	}

	sess := &model.Session{UserID: user.ID, Email: user.Email}
	s.publishSessionEvent(ctx, model.SessionSignedIn, sess)

	return tokens, sess, nil
}

// Logout announces the end of the subject's session. Tokens are
// stateless; clients drop them, subscribers observe the transition.
func (s *Service) Logout(ctx context.Context, sess *model.Session) {
	s.publishSessionEvent(ctx, model.SessionSignedOut, sess)
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	return s.generateTokens(claims.UserID, claims.Email)
}

func (s *Service) generateTokens(userID uuid.UUID, email string) (*model.TokenResponse, error) {
	accessToken, err := s.jwtSvc.GenerateAccessToken(userID, email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtSvc.GenerateRefreshToken(userID, email)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *Service) publishSessionEvent(ctx context.Context, eventType string, sess *model.Session) {
	ev := model.SessionEvent{Type: eventType}
	if sess != nil {
		ev.UserID = sess.UserID
		ev.Email = sess.Email
	}
	if err := s.broker.Publish(ctx, model.SessionChannel, ev); err != nil {
		s.logger.Error(err, "failed to publish session event", "type", eventType)
	}
}
