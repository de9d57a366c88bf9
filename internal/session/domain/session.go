package domain

// UserProfile 登入者基本資料 (auth service 回傳)
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Session 目前持有的登入狀態
type Session struct {
	User         UserProfile `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`

	// PendingVerificationEmail 註冊後尚未通過 OTP 驗證的信箱
	PendingVerificationEmail string `json:"pending_verification_email,omitempty"`

	IsAuthenticated bool `json:"is_authenticated"`
}

// AuthResult auth service 登入/驗證成功的回應
type AuthResult struct {
	User          UserProfile `json:"user"`
	AccessToken   string      `json:"accessToken"`
	RefreshToken  string      `json:"refreshToken"`
	EmailVerified bool        `json:"emailVerified"`
}

// TokenPair refresh-token 端點的回應
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
