package usecase

import (
	"context"
	"testing"
	"time"

	"cinema-backoffice/internal/data/entity"
	"cinema-backoffice/internal/dto/request"
	"cinema-backoffice/pkg/apperror"
	"cinema-backoffice/pkg/permission"
	"cinema-backoffice/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *utils.Config {
	return &utils.Config{
		JWT: utils.JWTConfig{
			Secret:             "test-secret-with-enough-entropy",
			Issuer:             "cinema-backoffice",
			AccessTTL:          2 * time.Hour,
			RefreshTTL:         7 * 24 * time.Hour,
			RememberAccessTTL:  30 * 24 * time.Hour,
			RememberRefreshTTL: 30 * 24 * time.Hour,
		},
	}
}

func newAuthFixture(t *testing.T) (*store, AuthService) {
	t.Helper()
	s := newStore()
	return s, NewAuthService(s.repository(), testConfig(), utils.FixedClock{At: testNow}, zap.NewNop())
}

var testClient = request.ClientInfo{UserAgent: "curl/8.0", IPAddress: "10.0.0.1"}

func TestLogin(t *testing.T) {
	s, svc := newAuthFixture(t)
	staff := s.addUser("staff@cinema.test", permission.RoleStaff, true)
	s.addUser("gone@cinema.test", permission.RoleStaff, false)

	t.Run("issues a token pair", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), &request.LoginRequest{Email: "staff@cinema.test", Password: "secret123"}, testClient)
		require.NoError(t, err)

		assert.Equal(t, "Bearer", resp.TokenType)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Len(t, resp.RefreshToken, 96)
		assert.Equal(t, testNow.Add(2*time.Hour), resp.ExpiresAt)
		assert.Equal(t, testNow.Add(7*24*time.Hour), resp.RefreshExpiresAt)
		assert.Equal(t, staff.ID.String(), resp.User.ID)
		require.NotNil(t, resp.User.LastLoginAt)
		assert.Equal(t, testNow, *resp.User.LastLoginAt)

		sess := s.sessions[utils.HashRefreshToken(resp.RefreshToken)]
		require.NotNil(t, sess)
		assert.Equal(t, staff.ID, sess.UserID)
		assert.Equal(t, "10.0.0.1", *sess.IPAddress)
		assert.NotEqual(t, resp.RefreshToken, sess.TokenHash, "only the hash is stored")
	})

	t.Run("remember me extends both tokens", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), &request.LoginRequest{Email: "staff@cinema.test", Password: "secret123", RememberMe: true}, testClient)
		require.NoError(t, err)
		assert.Equal(t, testNow.Add(30*24*time.Hour), resp.ExpiresAt)
		assert.Equal(t, testNow.Add(30*24*time.Hour), resp.RefreshExpiresAt)
	})

	tests := []struct {
		name string
		req  request.LoginRequest
		kind error
		msg  string
	}{
		{"wrong password", request.LoginRequest{Email: "staff@cinema.test", Password: "wrong-password"}, apperror.ErrUnauthorized, "Invalid email or password"},
		{"unknown email", request.LoginRequest{Email: "nobody@cinema.test", Password: "secret123"}, apperror.ErrUnauthorized, "Invalid email or password"},
		{"deactivated", request.LoginRequest{Email: "gone@cinema.test", Password: "secret123"}, apperror.ErrForbidden, "Account is deactivated"},
		{"malformed email", request.LoginRequest{Email: "staff", Password: "secret123"}, apperror.ErrInvalidInput, "Validation failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &tt.req, testClient)
			require.ErrorIs(t, err, tt.kind)
			assert.EqualError(t, err, tt.msg)
		})
	}
}

func TestRefresh(t *testing.T) {
	s, svc := newAuthFixture(t)
	s.addUser("staff@cinema.test", permission.RoleStaff, true)

	login, err := svc.Login(context.Background(), &request.LoginRequest{Email: "staff@cinema.test", Password: "secret123", RememberMe: true}, testClient)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), &request.RefreshRequest{RefreshToken: login.RefreshToken}, testClient)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, testNow.Add(30*24*time.Hour), refreshed.RefreshExpiresAt, "remember me carries over")

	_, err = svc.Refresh(context.Background(), &request.RefreshRequest{RefreshToken: login.RefreshToken}, testClient)
	require.ErrorIs(t, err, apperror.ErrUnauthorized, "a rotated token cannot be reused")

	_, err = svc.Refresh(context.Background(), &request.RefreshRequest{RefreshToken: "not-hex"}, testClient)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestRefreshDeactivatedUser(t *testing.T) {
	s, svc := newAuthFixture(t)
	staff := s.addUser("staff@cinema.test", permission.RoleStaff, true)

	login, err := svc.Login(context.Background(), &request.LoginRequest{Email: "staff@cinema.test", Password: "secret123"}, testClient)
	require.NoError(t, err)

	s.users[staff.ID].IsActive = false

	_, err = svc.Refresh(context.Background(), &request.RefreshRequest{RefreshToken: login.RefreshToken}, testClient)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestLogout(t *testing.T) {
	t.Run("single session", func(t *testing.T) {
		s, svc := newAuthFixture(t)
		staff := s.addUser("staff@cinema.test", permission.RoleStaff, true)

		first, err := svc.Login(context.Background(), &request.LoginRequest{Email: "staff@cinema.test", Password: "secret123"}, testClient)
		require.NoError(t, err)
		_, err = svc.Login(context.Background(), &request.LoginRequest{Email: "staff@cinema.test", Password: "secret123"}, testClient)
		require.NoError(t, err)

		require.NoError(t, svc.Logout(context.Background(), staff.ID, &request.LogoutRequest{RefreshToken: &first.RefreshToken}))
		assert.Equal(t, 1, s.activeSessions(staff.ID))
	})

	t.Run("all sessions", func(t *testing.T) {
		s, svc := newAuthFixture(t)
		staff := s.addUser("staff@cinema.test", permission.RoleStaff, true)

		for range 3 {
			_, err := svc.Login(context.Background(), &request.LoginRequest{Email: "staff@cinema.test", Password: "secret123"}, testClient)
			require.NoError(t, err)
		}

		require.NoError(t, svc.Logout(context.Background(), staff.ID, &request.LogoutRequest{}))
		assert.Zero(t, s.activeSessions(staff.ID))
	})

	t.Run("someone else's token is ignored", func(t *testing.T) {
		s, svc := newAuthFixture(t)
		staff := s.addUser("staff@cinema.test", permission.RoleStaff, true)

		login, err := svc.Login(context.Background(), &request.LoginRequest{Email: "staff@cinema.test", Password: "secret123"}, testClient)
		require.NoError(t, err)

		require.NoError(t, svc.Logout(context.Background(), uuid.New(), &request.LogoutRequest{RefreshToken: &login.RefreshToken}))
		assert.Equal(t, 1, s.activeSessions(staff.ID))
	})
}

func TestMe(t *testing.T) {
	s, svc := newAuthFixture(t)
	staff := s.addUser("staff@cinema.test", permission.RoleStaff, true)

	resp, err := svc.Me(context.Background(), staff.ID)
	require.NoError(t, err)
	assert.Equal(t, "staff@cinema.test", resp.Email)
	assert.Contains(t, resp.Permissions, string(permission.ShowtimesCreate))
	assert.NotContains(t, resp.Permissions, string(permission.ShowtimesDelete))

	_, err = svc.Me(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestCleanupSessions(t *testing.T) {
	s, svc := newAuthFixture(t)
	userID := uuid.New()

	expired := newSession(userID, "expired")
	expired.ExpiresAt = testNow.Add(-8 * 24 * time.Hour)
	revokedAt := testNow.Add(-10 * 24 * time.Hour)
	revoked := newSession(userID, "revoked")
	revoked.RevokedAt = &revokedAt
	recent := newSession(userID, "recent")

	for _, sess := range []*entity.Session{expired, revoked, recent} {
		s.sessions[sess.TokenHash] = sess
	}

	removed, err := svc.CleanupSessions(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)
	assert.Contains(t, s.sessions, "recent")
}
