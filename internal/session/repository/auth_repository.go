package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"chat_web_service/internal/session/domain"
	errprocess "chat_web_service/pkg/err"
)

// AuthRepository auth service HTTP 端點
type AuthRepository interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Register(ctx context.Context, name, email, password string) error
	VerifyEmail(ctx context.Context, email, otp string) (*domain.AuthResult, error)
	ResendOTP(ctx context.Context, email string) error
	RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
}

// httpAuthRepository 實現 AuthRepository
type httpAuthRepository struct {
	baseURL string
	client  *http.Client
}

// NewAuthRepository init auth service client
func NewAuthRepository(baseURL string) AuthRepository {
	return &httpAuthRepository{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// errorBody auth service 失敗回應
type errorBody struct {
	Message string `json:"message"`
}

// postJSON 送出請求並解析回應, out 可為 nil
func (r *httpAuthRepository) postJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return errprocess.Set(fmt.Sprintf("auth service unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e errorBody
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Message == "" {
			e.Message = fmt.Sprintf("auth service error: %s", resp.Status)
		}
		return errprocess.Set(e.Message)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (r *httpAuthRepository) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	var result domain.AuthResult
	err := r.postJSON(ctx, "/login", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *httpAuthRepository) Register(ctx context.Context, name, email, password string) error {
	return r.postJSON(ctx, "/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, nil)
}

func (r *httpAuthRepository) VerifyEmail(ctx context.Context, email, otp string) (*domain.AuthResult, error) {
	var result domain.AuthResult
	err := r.postJSON(ctx, "/verify-email", map[string]string{
		"email": email,
		"otp":   otp,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *httpAuthRepository) ResendOTP(ctx context.Context, email string) error {
	return r.postJSON(ctx, "/resend-otp", map[string]string{
		"email": email,
	}, nil)
}

func (r *httpAuthRepository) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	var pair domain.TokenPair
	err := r.postJSON(ctx, "/refresh-token", map[string]string{
		"refreshToken": refreshToken,
	}, &pair)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}
