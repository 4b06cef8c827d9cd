package auth

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiu748/cafe-alya/internal/users"
	pkgAuth "github.com/poiu748/cafe-alya/pkg/auth"
	"github.com/poiu748/cafe-alya/pkg/auth/session"
	"github.com/poiu748/cafe-alya/pkg/config"
	"github.com/poiu748/cafe-alya/pkg/db/dbtest"
	"github.com/poiu748/cafe-alya/pkg/enums"
	pkgerrors "github.com/poiu748/cafe-alya/pkg/errors"
	"github.com/poiu748/cafe-alya/pkg/logger"
)

type memorySessions struct {
	tokens map[string]string
	seq    int
}

func newMemorySessions() *memorySessions {
	return &memorySessions{tokens: map[string]string{}}
}

func (m *memorySessions) Generate(_ context.Context, accessID string) (string, error) {
	m.seq++
	token := uuid.NewString()
	m.tokens[accessID] = token
	return token, nil
}

func (m *memorySessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := m.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(m.tokens, oldAccessID)
	newID := session.NewAccessID()
	token := uuid.NewString()
	m.tokens[newID] = token
	return newID, token, nil
}

func (m *memorySessions) Revoke(_ context.Context, accessID string) error {
	delete(m.tokens, accessID)
	return nil
}

var (
	testJWT = config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "cafe-alya",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
	testPassword = config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
)

func newTestService(t *testing.T) (Service, *memorySessions, *bytes.Buffer) {
	t.Helper()
	sessions := newMemorySessions()
	logs := &bytes.Buffer{}
	svc, err := NewService(ServiceParams{
		UserRepo:       users.NewRepository(dbtest.Open(t)),
		SessionManager: sessions,
		JWTConfig:      testJWT,
		PasswordConfig: testPassword,
		Logger:         logger.New(logger.Options{ServiceName: "test", Output: logs}),
	})
	require.NoError(t, err)
	return svc, sessions, logs
}

func TestNewServiceValidatesDeps(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestRegisterAndLogin(t *testing.T) {
	svc, sessions, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{
		Username: "Barista",
		Email:    "barista@cafe.fr",
		Password: "long-enough",
		Role:     enums.UserRoleEmployee,
	})
	require.NoError(t, err)
	assert.Equal(t, "barista", user.Username)

	_, err = svc.Register(ctx, RegisterRequest{
		Username: "barista",
		Email:    "other@cafe.fr",
		Password: "long-enough",
		Role:     enums.UserRoleEmployee,
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	_, err = svc.Login(ctx, LoginRequest{Username: "barista", Password: "wrong-password"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	_, err = svc.Login(ctx, LoginRequest{Username: "ghost", Password: "long-enough"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	resp, err := svc.Login(ctx, LoginRequest{Username: "BARISTA", Password: "long-enough"})
	require.NoError(t, err)
	require.NotNil(t, resp.User.LastLoginAt)
	assert.NotEmpty(t, resp.RefreshToken)

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, enums.UserRoleEmployee, claims.Role)
	assert.Equal(t, resp.RefreshToken, sessions.tokens[claims.ID])

	me, err := svc.Me(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "barista@cafe.fr", me.Email)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := map[string]RegisterRequest{
		"short username": {Username: "ab", Email: "a@b.fr", Password: "long-enough", Role: enums.UserRoleAdmin},
		"short password": {Username: "abc", Email: "a@b.fr", Password: "short", Role: enums.UserRoleAdmin},
		"bad role":       {Username: "abc", Email: "a@b.fr", Password: "long-enough", Role: "owner"},
		"missing email":  {Username: "abc", Password: "long-enough", Role: enums.UserRoleAdmin},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, req)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		})
	}
}

func TestRefreshRotatesAndLogoutRevokes(t *testing.T) {
	svc, sessions, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "owner", Email: "owner@cafe.fr", Password: "long-enough", Role: enums.UserRoleAdmin})
	require.NoError(t, err)
	login, err := svc.Login(ctx, LoginRequest{Username: "owner", Password: "long-enough"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, login.AccessToken, "not-the-token")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	pair, err := svc.Refresh(ctx, login.AccessToken, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, pair.RefreshToken)
	require.Len(t, sessions.tokens, 1)

	_, err = svc.Refresh(ctx, login.AccessToken, login.RefreshToken)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized), "old session is gone")

	require.NoError(t, svc.Logout(ctx, pair.AccessToken))
	assert.Empty(t, sessions.tokens)

	assert.True(t, pkgerrors.IsCode(svc.Logout(ctx, "garbage"), pkgerrors.CodeUnauthorized))
}

func TestRefreshAcceptsExpiredAccessToken(t *testing.T) {
	sessions := newMemorySessions()
	repo := users.NewRepository(dbtest.Open(t))
	past := time.Now().Add(-time.Hour)
	clock := past
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWT,
		PasswordConfig: testPassword,
		Logger:         logger.New(logger.Options{Output: &bytes.Buffer{}}),
		Now:            func() time.Time { return clock },
	})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Register(ctx, RegisterRequest{Username: "night", Email: "night@cafe.fr", Password: "long-enough", Role: enums.UserRoleEmployee})
	require.NoError(t, err)
	login, err := svc.Login(ctx, LoginRequest{Username: "night", Password: "long-enough"})
	require.NoError(t, err)

	_, err = pkgAuth.ParseAccessToken(testJWT, login.AccessToken)
	require.Error(t, err, "token minted an hour ago with a 15 minute ttl")

	clock = time.Now()
	pair, err := svc.Refresh(ctx, login.AccessToken, login.RefreshToken)
	require.NoError(t, err)
	_, err = pkgAuth.ParseAccessToken(testJWT, pair.AccessToken)
	require.NoError(t, err)
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	svc, _, logs := newTestService(t)
	ctx := context.Background()

	created, err := svc.EnsureBootstrapAdmin(ctx, config.BootstrapAdminConfig{})
	require.NoError(t, err)
	assert.False(t, created, "disabled without credentials")

	cfg := config.BootstrapAdminConfig{Username: "admin", Password: "change-me-now"}
	created, err = svc.EnsureBootstrapAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Contains(t, logs.String(), "auth.bootstrap_admin_created")

	created, err = svc.EnsureBootstrapAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, created, "users already exist")

	resp, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "change-me-now"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User.Role)
	assert.Equal(t, "admin@localhost", resp.User.Email)
}
