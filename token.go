package main

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "ecosaarthi"
	tokenTTL      = time.Hour
	sessionCookie = "session"
)

// Claims bind the user id plus a snapshot of role and income taken at
// issuance time. The snapshot lets calculators run without a user lookup.
type Claims struct {
	UserID        uint    `json:"uid"`
	CurrentRole   string  `json:"role"`
	MonthlyIncome float64 `json:"income"`
	jwt.RegisteredClaims
}

// The gate treats every failure mode the same way at the HTTP level (401),
// but the reason is kept for the response body and logs.
var (
	errCredentialMissing   = errors.New("credential missing")
	errCredentialMalformed = errors.New("credential malformed")
	errCredentialExpired   = errors.New("credential expired")
	errCredentialSignature = errors.New("credential signature invalid")
)

func issueToken(userID uint, role string, income float64) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:        userID,
		CurrentRole:   role,
		MonthlyIncome: income,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// verifyToken is pure verification; it never touches storage.
func verifyToken(raw string) (*Claims, error) {
	if raw == "" {
		return nil, errCredentialMissing
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return jwtSecret, nil
	})
	switch {
	case err == nil && token.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, errCredentialExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, errCredentialSignature
	default:
		return nil, errCredentialMalformed
	}
}

// credentialFromRequest pulls the raw token from the HTTP-only session cookie,
// falling back to a Bearer header for non-browser clients.
func credentialFromRequest(c *gin.Context) string {
	if v, err := c.Cookie(sessionCookie); err == nil && v != "" {
		return v
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(sessionCookie, token, int(tokenTTL.Seconds()), "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}
