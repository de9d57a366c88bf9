package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"chat_web_service/internal/session/domain"
	"chat_web_service/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	m.Run()
}

// signTestToken 簽一個帶 exp 的 JWT, 內容不重要, 只看過期時間
func signTestToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return signed
}

func newSessionFixture() (SessionUseCase, *MockAuthRepository, *memSessionRepo) {
	authRepo := new(MockAuthRepository)
	sessionRepo := newMemSessionRepo()
	uc := NewSessionUseCase(authRepo, sessionRepo, time.Hour)
	return uc, authRepo, sessionRepo
}

// 測試登入成功後 session 持久化
func TestLogin(t *testing.T) {
	uc, authRepo, _ := newSessionFixture()
	ctx := context.Background()

	authRepo.On("Login", ctx, "alice@test.dev", "pw").Return(&domain.AuthResult{
		User:          domain.UserProfile{ID: "u1", Name: "alice", Email: "alice@test.dev"},
		AccessToken:   "at-1",
		RefreshToken:  "rt-1",
		EmailVerified: true,
	}, nil)

	sess, err := uc.Login(ctx, "alice@test.dev", "pw")
	assert.NoError(t, err)
	assert.True(t, sess.IsAuthenticated)
	assert.Equal(t, "u1", sess.User.ID)

	current, err := uc.Current(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "at-1", current.AccessToken)
	authRepo.AssertExpectations(t)
}

// 測試信箱未驗證: 回 ErrEmailNotVerified 並保留 pending 狀態
func TestLoginEmailNotVerified(t *testing.T) {
	uc, authRepo, _ := newSessionFixture()
	ctx := context.Background()

	authRepo.On("Login", ctx, "bob@test.dev", "pw").Return(&domain.AuthResult{
		EmailVerified: false,
	}, nil)

	sess, err := uc.Login(ctx, "bob@test.dev", "pw")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
	assert.False(t, sess.IsAuthenticated)
	assert.Equal(t, "bob@test.dev", sess.PendingVerificationEmail)

	current, err := uc.Current(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "bob@test.dev", current.PendingVerificationEmail)
}

// 測試註冊後進入待驗證, OTP 驗證成功即完成登入
func TestRegisterThenVerifyEmail(t *testing.T) {
	uc, authRepo, _ := newSessionFixture()
	ctx := context.Background()

	authRepo.On("Register", ctx, "carol", "carol@test.dev", "pw").Return(nil)
	authRepo.On("VerifyEmail", ctx, "carol@test.dev", "123456").Return(&domain.AuthResult{
		User:          domain.UserProfile{ID: "u3", Email: "carol@test.dev"},
		AccessToken:   "at-3",
		RefreshToken:  "rt-3",
		EmailVerified: true,
	}, nil)

	assert.NoError(t, uc.Register(ctx, "carol", "carol@test.dev", "pw"))

	current, err := uc.Current(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "carol@test.dev", current.PendingVerificationEmail)
	assert.False(t, current.IsAuthenticated)

	sess, err := uc.VerifyEmail(ctx, "carol@test.dev", "123456")
	assert.NoError(t, err)
	assert.True(t, sess.IsAuthenticated)
	assert.Equal(t, "at-3", sess.AccessToken)
}

// 測試 refresh 成功換新 token pair
func TestRefreshAccessToken(t *testing.T) {
	uc, authRepo, sessionRepo := newSessionFixture()
	ctx := context.Background()

	sessionRepo.Set(ctx, "web:session", domain.Session{
		AccessToken:     "at-old",
		RefreshToken:    "rt-old",
		IsAuthenticated: true,
	}, time.Hour)

	authRepo.On("RefreshToken", ctx, "rt-old").Return(&domain.TokenPair{
		AccessToken:  "at-new",
		RefreshToken: "rt-new",
	}, nil)

	assert.NoError(t, uc.RefreshAccessToken(ctx))

	current, err := uc.Current(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "at-new", current.AccessToken)
	assert.Equal(t, "rt-new", current.RefreshToken)
}

// 測試 refresh 失敗視為 session 失效, 強制登出
func TestRefreshFailureForcesLogout(t *testing.T) {
	uc, authRepo, sessionRepo := newSessionFixture()
	ctx := context.Background()

	sessionRepo.Set(ctx, "web:session", domain.Session{
		AccessToken:     "at-old",
		RefreshToken:    "rt-old",
		IsAuthenticated: true,
	}, time.Hour)

	authRepo.On("RefreshToken", ctx, "rt-old").Return(nil, errors.New("refresh token revoked"))

	assert.Error(t, uc.RefreshAccessToken(ctx))

	_, err := uc.Current(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

// 測試 Token: 未過期直接回傳, 不打 auth service
func TestTokenStillValid(t *testing.T) {
	uc, authRepo, sessionRepo := newSessionFixture()
	ctx := context.Background()

	valid := signTestToken(t, time.Now().Add(time.Hour))
	sessionRepo.Set(ctx, "web:session", domain.Session{
		AccessToken:     valid,
		RefreshToken:    "rt-1",
		IsAuthenticated: true,
	}, time.Hour)

	assert.Equal(t, valid, uc.Token(ctx))
	authRepo.AssertNotCalled(t, "RefreshToken")
}

// 測試 Token: 過期先 refresh 再回新 token
func TestTokenRefreshesExpired(t *testing.T) {
	uc, authRepo, sessionRepo := newSessionFixture()
	ctx := context.Background()

	expired := signTestToken(t, time.Now().Add(-time.Minute))
	fresh := signTestToken(t, time.Now().Add(time.Hour))
	sessionRepo.Set(ctx, "web:session", domain.Session{
		AccessToken:     expired,
		RefreshToken:    "rt-1",
		IsAuthenticated: true,
	}, time.Hour)

	authRepo.On("RefreshToken", ctx, "rt-1").Return(&domain.TokenPair{
		AccessToken:  fresh,
		RefreshToken: "rt-2",
	}, nil)

	assert.Equal(t, fresh, uc.Token(ctx))
}

// 測試 Token: refresh 失敗回空字串, session 已被清掉
func TestTokenRefreshFailure(t *testing.T) {
	uc, authRepo, sessionRepo := newSessionFixture()
	ctx := context.Background()

	expired := signTestToken(t, time.Now().Add(-time.Minute))
	sessionRepo.Set(ctx, "web:session", domain.Session{
		AccessToken:     expired,
		RefreshToken:    "rt-1",
		IsAuthenticated: true,
	}, time.Hour)

	authRepo.On("RefreshToken", ctx, "rt-1").Return(nil, errors.New("refresh token revoked"))

	assert.Equal(t, "", uc.Token(ctx))
	_, err := uc.Current(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

// 測試未登入時 Token 為空
func TestTokenNotAuthenticated(t *testing.T) {
	uc, _, _ := newSessionFixture()
	assert.Equal(t, "", uc.Token(context.Background()))
}

// 測試登出清除 session
func TestLogout(t *testing.T) {
	uc, _, sessionRepo := newSessionFixture()
	ctx := context.Background()

	sessionRepo.Set(ctx, "web:session", domain.Session{IsAuthenticated: true}, time.Hour)
	uc.Logout(ctx)

	_, err := uc.Current(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
