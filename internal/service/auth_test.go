package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/college-events/internal/auth"
	"github.com/Shivanand-hulikatti/college-events/internal/database"
	"github.com/Shivanand-hulikatti/college-events/internal/model"
	"github.com/Shivanand-hulikatti/college-events/internal/repository"
)

func newAuthService(t *testing.T) (*AuthService, *auth.TokenManager) {
	t.Helper()
	store, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, database.Migrate(store.DB))
	tokens := auth.NewTokenManager("0123456789abcdef0123", time.Hour)
	return NewAuthService(repository.NewUserRepository(store.DB), tokens, zerolog.Nop()), tokens
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, tokens := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, model.RegisterRequest{Name: " Asha ", Email: "Asha@Example.com", Password: "secret1", College: "VIT"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", res.User.Email)
	assert.Equal(t, model.RoleUser, res.User.Role)
	id, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id.UserID)

	_, err = svc.Register(ctx, model.RegisterRequest{Name: "Again", Email: "asha@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Register(ctx, model.RegisterRequest{Name: "Short", Email: "s@example.com", Password: "123"})
	assert.ErrorIs(t, err, ErrValidation)

	logged, err := svc.Login(ctx, model.LoginRequest{Email: "ASHA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, logged.User.ID)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "asha@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Login(ctx, model.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_ProfileAndPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	res, err := svc.Register(ctx, model.RegisterRequest{Name: "Ravi", Email: "ravi@example.com", Password: "secret1"})
	require.NoError(t, err)
	who := res.User.Identity()

	college := "NIT Surathkal"
	u, err := svc.UpdateProfile(ctx, who, model.UpdateProfileRequest{College: &college})
	require.NoError(t, err)
	assert.Equal(t, college, u.College)
	assert.Equal(t, "Ravi", u.Name)

	blank := "   "
	_, err = svc.UpdateProfile(ctx, who, model.UpdateProfileRequest{Name: &blank})
	assert.ErrorIs(t, err, ErrValidation)
	me, err := svc.Me(ctx, who)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", me.Name)

	err = svc.ChangePassword(ctx, who, model.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "secret2"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	require.NoError(t, svc.ChangePassword(ctx, who, model.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "secret2"}))

	_, err = svc.Login(ctx, model.LoginRequest{Email: "ravi@example.com", Password: "secret2"})
	assert.NoError(t, err)

	me, err = svc.Me(ctx, who)
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", me.Email)
	_, err = svc.Me(ctx, model.Anonymous())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_AdminBootstrapAndPromote(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	admin, err := svc.EnsureAdmin(ctx, "root@example.com", "rootpass")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	again, err := svc.EnsureAdmin(ctx, "root@example.com", "rootpass")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)

	res, err := svc.Register(ctx, model.RegisterRequest{Name: "Meera", Email: "meera@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Promote(ctx, res.User.Identity(), res.User.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	promoted, err := svc.Promote(ctx, admin.Identity(), res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, promoted.Role)

	_, err = svc.Promote(ctx, admin.Identity(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	existing, err := svc.Register(ctx, model.RegisterRequest{Name: "Later", Email: "later@example.com", Password: "secret1"})
	require.NoError(t, err)
	boot, err := svc.EnsureAdmin(ctx, "later@example.com", "ignored")
	require.NoError(t, err)
	assert.Equal(t, existing.User.ID, boot.ID)
	assert.Equal(t, model.RoleAdmin, boot.Role)
}
