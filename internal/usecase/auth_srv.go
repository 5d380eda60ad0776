package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cinema-backoffice/internal/data/entity"
	"cinema-backoffice/internal/data/repository"
	"cinema-backoffice/internal/dto/request"
	"cinema-backoffice/internal/dto/response"
	"cinema-backoffice/pkg/apperror"
	"cinema-backoffice/pkg/permission"
	"cinema-backoffice/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// revoked sessions are kept this long before cleanup deletes them
const sessionRetention = 7 * 24 * time.Hour

type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest, client request.ClientInfo) (*response.TokenResponse, error)
	Refresh(ctx context.Context, req *request.RefreshRequest, client request.ClientInfo) (*response.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, req *request.LogoutRequest) error
	Me(ctx context.Context, userID uuid.UUID) (*response.MeResponse, error)
	CleanupSessions(ctx context.Context) (int64, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	clock  utils.Clock
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	clock utils.Clock,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		clock:  clock,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, client request.ClientInfo) (*response.TokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("email", req.Email), zap.String("ip", client.IPAddress))
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, apperror.Forbidden("Account is deactivated")
	}

	resp, err := s.issueTokens(ctx, s.repo, user, req.RememberMe, client)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.repo.User.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("Failed to record last login", zap.Error(err))
	} else {
		resp.User.LastLoginAt = &now
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.Bool("remember_me", req.RememberMe),
	)

	return resp, nil
}

// Refresh rotates a refresh token: the presented session is revoked and a new
// one is issued with the same remember-me setting.
func (s *authService) Refresh(ctx context.Context, req *request.RefreshRequest, client request.ClientInfo) (*response.TokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, apperror.Unauthorized("Invalid or expired refresh token")
	}

	hash := utils.HashRefreshToken(req.RefreshToken)

	var resp *response.TokenResponse
	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		session, err := tx.Session.FindValidSession(ctx, hash, s.clock.Now())
		if err != nil {
			return err
		}
		if session == nil {
			return apperror.Unauthorized("Invalid or expired refresh token")
		}

		user, err := tx.User.FindByID(ctx, session.UserID)
		if err != nil {
			return err
		}
		if user == nil || !user.IsActive {
			return apperror.Unauthorized("Invalid or expired refresh token")
		}

		revoked, err := tx.Session.Revoke(ctx, hash)
		if err != nil {
			return err
		}
		if !revoked {
			// lost a race with a concurrent refresh or logout
			return apperror.Unauthorized("Invalid or expired refresh token")
		}

		resp, err = s.issueTokens(ctx, tx, user, session.RememberMe, client)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Session refreshed", zap.String("user_id", resp.User.ID))
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID, req *request.LogoutRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	if req.RefreshToken == nil {
		if err := s.repo.Session.RevokeAllUserSessions(ctx, userID); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		s.log.Info("All sessions revoked", zap.String("user_id", userID.String()))
		return nil
	}

	hash := utils.HashRefreshToken(*req.RefreshToken)
	session, err := s.repo.Session.FindValidSession(ctx, hash, s.clock.Now())
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if session == nil || session.UserID != userID {
		// already gone, nothing to revoke
		return nil
	}

	if _, err := s.repo.Session.Revoke(ctx, hash); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info("Session revoked", zap.String("user_id", userID.String()))
	return nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*response.MeResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, apperror.Unauthorized("User not found or inactive")
	}

	granted := permission.ForRole(user.Role)
	perms := make([]string, len(granted))
	for i, p := range granted {
		perms[i] = string(p)
	}

	return &response.MeResponse{
		UserResponse: response.UserToResponse(user),
		Permissions:  perms,
	}, nil
}

// CleanupSessions deletes sessions that expired or were revoked more than a
// retention period ago.
func (s *authService) CleanupSessions(ctx context.Context) (int64, error) {
	removed, err := s.repo.Session.CleanExpiredSessions(ctx, s.clock.Now().Add(-sessionRetention))
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	return removed, nil
}

func (s *authService) issueTokens(ctx context.Context, repo *repository.Repository, user *entity.User, rememberMe bool, client request.ClientInfo) (*response.TokenResponse, error) {
	accessTTL, refreshTTL := s.config.JWT.AccessTTL, s.config.JWT.RefreshTTL
	if rememberMe {
		accessTTL, refreshTTL = s.config.JWT.RememberAccessTTL, s.config.JWT.RememberRefreshTTL
	}

	now := s.clock.Now()
	access, err := utils.NewAccessToken(s.config.JWT, user.ID, user.Email, string(user.Role), accessTTL, now)
	if err != nil {
		return nil, err
	}

	refresh, err := utils.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		UserID:     user.ID,
		TokenHash:  utils.HashRefreshToken(refresh),
		RememberMe: rememberMe,
		UserAgent:  utils.StringPtr(client.UserAgent),
		IPAddress:  utils.StringPtr(client.IPAddress),
		ExpiresAt:  now.Add(refreshTTL),
	}
	if err := repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return &response.TokenResponse{
		AccessToken:      access.Token,
		RefreshToken:     refresh,
		TokenType:        "Bearer",
		ExpiresAt:        access.ExpiresAt,
		RefreshExpiresAt: session.ExpiresAt,
		User:             response.UserToResponse(user),
	}, nil
}
