package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error = %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken error = %v", err)
	}
	if claims.Subject != TokenSubject {
		t.Errorf("subject = %q", claims.Subject)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Error("token verified with the wrong secret")
	}
}

func TestParseToken_Rejects(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	sign := func(claims jwt.RegisteredClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		if err != nil {
			t.Fatal(err)
		}
		return s
	}

	tests := map[string]string{
		"expired":       sign(jwt.RegisteredClaims{Subject: TokenSubject, ExpiresAt: jwt.NewNumericDate(past)}),
		"no expiry":     sign(jwt.RegisteredClaims{Subject: TokenSubject}),
		"other subject": sign(jwt.RegisteredClaims{Subject: "guest", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}),
		"garbage":       "not.a.token",
	}
	for name, token := range tests {
		if _, err := ParseToken("secret", token); err == nil {
			t.Errorf("%s: ParseToken error = nil, want error", name)
		}
	}
}
