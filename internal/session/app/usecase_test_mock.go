package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"chat_web_service/internal/session/domain"

	"github.com/stretchr/testify/mock"
)

// MockAuthRepository Mock AuthRepository
type MockAuthRepository struct {
	mock.Mock
}

// Login mock login
func (m *MockAuthRepository) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.AuthResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// Register mock register
func (m *MockAuthRepository) Register(ctx context.Context, name, email, password string) error {
	args := m.Called(ctx, name, email, password)
	return args.Error(0)
}

// VerifyEmail mock verify email otp
func (m *MockAuthRepository) VerifyEmail(ctx context.Context, email, otp string) (*domain.AuthResult, error) {
	args := m.Called(ctx, email, otp)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.AuthResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// ResendOTP mock resend otp
func (m *MockAuthRepository) ResendOTP(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// RefreshToken mock refresh token
func (m *MockAuthRepository) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.TokenPair), args.Error(1)
	}
	return nil, args.Error(1)
}

// memSessionRepo 給測試用的 in-memory session repository
type memSessionRepo struct {
	mu   sync.Mutex
	data map[string]domain.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{data: make(map[string]domain.Session)}
}

func (r *memSessionRepo) Set(ctx context.Context, key string, value domain.Session, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = value
	return nil
}

func (r *memSessionRepo) Get(ctx context.Context, key string) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.data[key]
	if !ok {
		return domain.Session{}, errors.New("key not found")
	}
	return sess, nil
}

func (r *memSessionRepo) Del(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

func (r *memSessionRepo) GetTTL(ctx context.Context, key string) (int, error) {
	return 0, nil
}

func (r *memSessionRepo) ExtendTTL(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}
