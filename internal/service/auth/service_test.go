package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/portal-api/internal/email"
	"github.com/clinicore/portal-api/internal/model"
	"github.com/clinicore/portal-api/internal/repository"
	authservice "github.com/clinicore/portal-api/internal/service/auth"
	"github.com/clinicore/portal-api/pkg/auth"
	"github.com/clinicore/portal-api/pkg/logger"
)

type fakeUserRepo struct {
	users map[string]*model.AuthUser
}

func (f *fakeUserRepo) Create(ctx context.Context, u *model.AuthUser) error {
	f.users[strings.ToLower(u.Email)] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.AuthUser, error) {
	u, ok := f.users[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*model.Profile
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *model.Profile) error {
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) ListByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*model.Profile, error) {
	return nil, nil
}

type fakeRoleRepo struct {
	roles map[uuid.UUID]model.UserRole
}

func (f *fakeRoleRepo) Assign(ctx context.Context, userID uuid.UUID, role model.UserRole) error {
	f.roles[userID] = role
	return nil
}

func (f *fakeRoleRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (model.UserRole, error) {
	role, ok := f.roles[userID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return role, nil
}

type fakeBroker struct {
	published []string
}

func (f *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	f.published = append(f.published, channel)
	return nil
}

func (f *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return make(chan []byte), nil
}

func (f *fakeBroker) Close() error { return nil }

type harness struct {
	svc    *authservice.Service
	users  *fakeUserRepo
	roles  *fakeRoleRepo
	broker *fakeBroker
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		users:  &fakeUserRepo{users: make(map[string]*model.AuthUser)},
		roles:  &fakeRoleRepo{roles: make(map[uuid.UUID]model.UserRole)},
		broker: &fakeBroker{},
	}
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        "s",
		RefreshSecret: "r",
		Expiry:        time.Hour,
		RefreshExpiry: time.Hour,
	})
	h.svc = authservice.NewService(
		h.users,
		&fakeProfileRepo{profiles: make(map[uuid.UUID]*model.Profile)},
		h.roles,
		jwtSvc,
		h.broker,
		email.Noop(),
		logger.NewLogger(nil),
	)
	return h
}

func register(t *testing.T, h *harness, role model.UserRole) *model.Session {
	t.Helper()

	_, sess, err := h.svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "jane@example.com",
		Password: "hunter2hunter2",
		Name:     "Jane",
		Role:     role,
	})
	require.NoError(t, err)
	return sess
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t)
	sess := register(t, h, model.RoleDoctor)

	assert.Equal(t, model.RoleDoctor, h.roles.roles[sess.UserID])
	assert.Equal(t, []string{model.SessionChannel}, h.broker.published)

	tokens, loginSess, err := h.svc.Login(context.Background(), "jane@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, sess.UserID, loginSess.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newHarness(t)
	register(t, h, model.RolePatient)

	_, _, err := h.svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "jane@example.com",
		Password: "hunter2hunter2",
		Name:     "Other Jane",
		Role:     model.RolePatient,
	})
	assert.ErrorIs(t, err, authservice.ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	h := newHarness(t)
	register(t, h, model.RolePatient)

	_, _, err := h.svc.Login(context.Background(), "jane@example.com", "wrong-password")
	assert.ErrorIs(t, err, authservice.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, authservice.ErrInvalidCredentials)
}

func TestLogoutPublishesSignOut(t *testing.T) {
	h := newHarness(t)
	sess := register(t, h, model.RolePatient)

	before := len(h.broker.published)
	h.svc.Logout(context.Background(), sess)
	assert.Len(t, h.broker.published, before+1)
}

func TestRefreshToken(t *testing.T) {
	h := newHarness(t)
	register(t, h, model.RolePatient)

	tokens, _, err := h.svc.Login(context.Background(), "jane@example.com", "hunter2hunter2")
	require.NoError(t, err)

	refreshed, err := h.svc.RefreshToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = h.svc.RefreshToken(context.Background(), tokens.AccessToken)
	assert.Error(t, err)
}
