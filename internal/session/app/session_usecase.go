package app

import (
	"context"
	"errors"
	"time"

	"chat_web_service/internal/session/domain"
	"chat_web_service/internal/session/repository"
	"chat_web_service/pkg/database"
	"chat_web_service/pkg/logger"
	"chat_web_service/pkg/token"

	"go.uber.org/zap"
)

// sessionKey 單一邏輯 session (多裝置同步為 non-goal)
const sessionKey = "web:session"

// ErrEmailNotVerified 登入成功但信箱尚未驗證
var ErrEmailNotVerified = errors.New("please verify your email first")

// ErrNotAuthenticated 無有效 session
var ErrNotAuthenticated = errors.New("not authenticated")

// SessionUseCase 這裡封裝了憑證持有者對外提供的應用服務
type SessionUseCase interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, name, email, password string) error
	VerifyEmail(ctx context.Context, email, otp string) (*domain.Session, error)
	ResendOTP(ctx context.Context, email string) error
	RefreshAccessToken(ctx context.Context) error
	Logout(ctx context.Context)
	Current(ctx context.Context) (*domain.Session, error)
	Token(ctx context.Context) string
}

type sessionUseCase struct {
	authRepo    repository.AuthRepository
	sessionRepo database.RedisRepository[domain.Session]
	sessionTTL  time.Duration
}

// NewSessionUseCase 建立一個新的 SessionUseCase
func NewSessionUseCase(
	authRepo repository.AuthRepository,
	sessionRepo database.RedisRepository[domain.Session],
	sessionTTL time.Duration,
) SessionUseCase {
	return &sessionUseCase{
		authRepo:    authRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
	}
}

// Login 登入; 信箱未驗證時保留 pending 狀態並回傳 ErrEmailNotVerified
func (s *sessionUseCase) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	result, err := s.authRepo.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if !result.EmailVerified {
		sess := domain.Session{PendingVerificationEmail: email}
		if err := s.sessionRepo.Set(ctx, sessionKey, sess, s.sessionTTL); err != nil {
			logger.Log.Errorf("persist pending session failed:", err)
		}
		return &sess, ErrEmailNotVerified
	}

	sess := domain.Session{
		User:            result.User,
		AccessToken:     result.AccessToken,
		RefreshToken:    result.RefreshToken,
		IsAuthenticated: true,
	}
	if err := s.sessionRepo.Set(ctx, sessionKey, sess, s.sessionTTL); err != nil {
		logger.Log.Errorf("persist session failed:", err)
	}

	logger.Log.Info("login success", zap.String("user", result.User.ID))
	return &sess, nil
}

// Register 註冊, 成功後進入待驗證狀態
func (s *sessionUseCase) Register(ctx context.Context, name, email, password string) error {
	if err := s.authRepo.Register(ctx, name, email, password); err != nil {
		return err
	}

	sess := domain.Session{PendingVerificationEmail: email}
	if err := s.sessionRepo.Set(ctx, sessionKey, sess, s.sessionTTL); err != nil {
		logger.Log.Errorf("persist pending session failed:", err)
	}
	return nil
}

// VerifyEmail OTP 驗證, 成功即完成登入
func (s *sessionUseCase) VerifyEmail(ctx context.Context, email, otp string) (*domain.Session, error) {
	result, err := s.authRepo.VerifyEmail(ctx, email, otp)
	if err != nil {
		return nil, err
	}

	sess := domain.Session{
		User:            result.User,
		AccessToken:     result.AccessToken,
		RefreshToken:    result.RefreshToken,
		IsAuthenticated: true,
	}
	if err := s.sessionRepo.Set(ctx, sessionKey, sess, s.sessionTTL); err != nil {
		logger.Log.Errorf("persist session failed:", err)
	}
	return &sess, nil
}

// ResendOTP 重發驗證碼
func (s *sessionUseCase) ResendOTP(ctx context.Context, email string) error {
	return s.authRepo.ResendOTP(ctx, email)
}

// RefreshAccessToken 以 refresh token 換新 access token
// 失敗視為 session 失效, 強制登出
func (s *sessionUseCase) RefreshAccessToken(ctx context.Context) error {
	sess, err := s.sessionRepo.Get(ctx, sessionKey)
	if err != nil || sess.RefreshToken == "" {
		s.Logout(ctx)
		return ErrNotAuthenticated
	}

	pair, err := s.authRepo.RefreshToken(ctx, sess.RefreshToken)
	if err != nil {
		s.Logout(ctx)
		return err
	}

	sess.AccessToken = pair.AccessToken
	sess.RefreshToken = pair.RefreshToken
	if err := s.sessionRepo.Set(ctx, sessionKey, sess, s.sessionTTL); err != nil {
		logger.Log.Errorf("persist session failed:", err)
	}
	return nil
}

// Logout 清除 session
func (s *sessionUseCase) Logout(ctx context.Context) {
	if err := s.sessionRepo.Del(ctx, sessionKey); err != nil {
		logger.Log.Errorf("clear session failed:", err)
	}
}

// Current 取得目前 session
func (s *sessionUseCase) Current(ctx context.Context) (*domain.Session, error) {
	sess, err := s.sessionRepo.Get(ctx, sessionKey)
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	return &sess, nil
}

// Token 取得可用的 access token
// 過期先嘗試 refresh; 無法取得時回傳空字串, realtime 核心拿不到憑證就停止運作
func (s *sessionUseCase) Token(ctx context.Context) string {
	sess, err := s.sessionRepo.Get(ctx, sessionKey)
	if err != nil || !sess.IsAuthenticated {
		return ""
	}

	if !token.IsExpired(sess.AccessToken) {
		return sess.AccessToken
	}

	if err := s.RefreshAccessToken(ctx); err != nil {
		return ""
	}

	sess, err = s.sessionRepo.Get(ctx, sessionKey)
	if err != nil {
		return ""
	}
	return sess.AccessToken
}
