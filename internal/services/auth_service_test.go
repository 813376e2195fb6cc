package services

import (
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/access"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/config"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/database/databasetest"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
		SuperAdminEmails: "dean@campus.edu",
	}
	return NewAuthService(databasetest.Open(t), cfg)
}

func TestRegisterCreatesStudent(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{Email: " Ana@Campus.edu ", Password: "password1", FullName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@campus.edu", resp.User.Email)
	assert.Equal(t, access.RoleStudent, resp.User.Role)
	assert.NotEmpty(t, resp.RefreshToken)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.User.ID.String(), claims["sub"])
	assert.Equal(t, "student", claims["role"])

	_, err = svc.Register(&dto.RegisterRequest{Email: "ana@campus.edu", Password: "password2", FullName: "Ana B"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterBootstrapsSuperAdmin(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{Email: "dean@campus.edu", Password: "password1", FullName: "Dean"})
	require.NoError(t, err)
	assert.Equal(t, access.RoleSuperAdmin, resp.User.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{Email: "not-an-email", Password: "password1", FullName: "X"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(&dto.RegisterRequest{Email: "x@campus.edu", Password: "short", FullName: "X"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(&dto.RegisterRequest{Email: "x@campus.edu", Password: "password1", FullName: "  "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginRefreshLogout(t *testing.T) {
	svc := newAuthService(t)
	reg, err := svc.Register(&dto.RegisterRequest{Email: "ben@campus.edu", Password: "password1", FullName: "Ben"})
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{Email: "ben@campus.edu", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := svc.Login(&dto.LoginRequest{Email: "BEN@campus.edu", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	refreshed, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: refreshed.RefreshToken}))
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: refreshed.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	me, err := svc.Me(reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ben", me.FullName)
}

func TestRefreshTokenRotatesOnce(t *testing.T) {
	svc := newAuthService(t)
	reg, err := svc.Register(&dto.RegisterRequest{Email: "cara@campus.edu", Password: "password1", FullName: "Cara"})
	require.NoError(t, err)

	const attempts = 8
	results := make([]*dto.AuthResponse, attempts)
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Refresh(&dto.RefreshRequest{RefreshToken: reg.RefreshToken})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for i := range errs {
		if errs[i] == nil {
			succeeded++
			require.NotNil(t, results[i])
			continue
		}
		assert.ErrorIs(t, errs[i], ErrInvalidToken)
	}
	assert.Equal(t, 1, succeeded)

	var live int64
	require.NoError(t, svc.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", reg.User.ID, false).
		Count(&live).Error)
	assert.Equal(t, int64(1), live)
}

func TestClaimRefreshTokenIsSingleUse(t *testing.T) {
	svc := newAuthService(t)
	_, err := svc.Register(&dto.RegisterRequest{Email: "dan@campus.edu", Password: "password1", FullName: "Dan"})
	require.NoError(t, err)

	var stored models.RefreshToken
	require.NoError(t, svc.db.First(&stored).Error)

	// Both callers read the token while it was still live.
	require.NoError(t, svc.claimRefreshToken(stored.ID))
	assert.ErrorIs(t, svc.claimRefreshToken(stored.ID), ErrInvalidToken)
}
