package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akinalp/mqvi-modbot/models"
	"github.com/akinalp/mqvi-modbot/pkg"
)

func signToken(t *testing.T, method jwt.SigningMethod, key any, userID string, exp time.Time) string {
	t.Helper()
	claims := models.TokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return s
}

func TestValidateAccessToken(t *testing.T) {
	svc := NewAuthService("secret")
	future := time.Now().Add(time.Hour)

	claims, err := svc.ValidateAccessToken(signToken(t, jwt.SigningMethodHS256, []byte("secret"), "u1", future))
	if err != nil {
		t.Fatalf("valid token: %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("UserID = %q", claims.UserID)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", signToken(t, jwt.SigningMethodHS256, []byte("other"), "u1", future)},
		{"expired", signToken(t, jwt.SigningMethodHS256, []byte("secret"), "u1", time.Now().Add(-time.Minute))},
		{"no user", signToken(t, jwt.SigningMethodHS256, []byte("secret"), "", future)},
		{"alg none", signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, "u1", future)},
		{"garbage", "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ValidateAccessToken(tt.token); !errors.Is(err, pkg.ErrUnauthorized) {
				t.Fatalf("err = %v, want ErrUnauthorized", err)
			}
		})
	}
}
