package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims structure for custom claims in JWT
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ErrMalformedToken token 無法解析
var ErrMalformedToken = errors.New("malformed token")

// ParseClaims 取出 JWT claims
// 前端持有者不擁有簽名密鑰, 只做 claims 檢視, 不做簽名驗證
// (簽名驗證是 auth service 與 socket service 的責任)
func ParseClaims(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser()
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// IsExpired check JWT token expires
// 解析失敗視同過期, 讓呼叫端走 refresh / logout 流程
func IsExpired(tokenStr string) bool {
	claims, err := ParseClaims(tokenStr)
	if err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		// 無 exp claim 視為不過期
		return false
	}

	return !exp.After(time.Now())
}

// ExpiresIn 回傳 token 剩餘有效時間, 過期或無法解析回傳 0
func ExpiresIn(tokenStr string) time.Duration {
	claims, err := ParseClaims(tokenStr)
	if err != nil {
		return 0
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}

	d := time.Until(exp.Time)
	if d < 0 {
		return 0
	}
	return d
}
