package models

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// Sandbox token settings.
const (
	// SandboxTokenIssuer identifies tokens minted by the local sandbox.
	SandboxTokenIssuer = "signupform-sandbox"

	// SandboxTokenTTL bounds how long a sandbox bearer token is accepted.
	SandboxTokenTTL = 24 * time.Hour

	// MinSandboxSecretLength is the minimum acceptable HMAC key length.
	MinSandboxSecretLength = 32
)

var (
	sandboxSecret   []byte
	sandboxSecretMu sync.RWMutex
)

// SandboxClaims are the claims carried by a sandbox bearer token.
type SandboxClaims struct {
	jwt.RegisteredClaims
}

// InitSandboxTokens sets the HMAC key used for sandbox tokens. An empty
// secret generates a random one, which invalidates tokens on restart.
func InitSandboxTokens(secret string) error {
	if secret == "" {
		buf := make([]byte, MinSandboxSecretLength)
		if _, err := rand.Read(buf); err != nil {
			return serr.Wrap(err, "failed to generate sandbox secret")
		}
		secret = hex.EncodeToString(buf)
		logger.Info("Generated ephemeral sandbox token secret")
	}

	if len(secret) < MinSandboxSecretLength {
		return serr.New("sandbox secret must be at least 32 characters")
	}

	sandboxSecretMu.Lock()
	sandboxSecret = []byte(secret)
	sandboxSecretMu.Unlock()
	return nil
}

func getSandboxSecret() ([]byte, error) {
	sandboxSecretMu.RLock()
	defer sandboxSecretMu.RUnlock()

	if len(sandboxSecret) == 0 {
		return nil, serr.New("sandbox tokens not initialized - call InitSandboxTokens first")
	}
	return sandboxSecret, nil
}

// IssueSandboxToken mints a bearer token for the given subject.
func IssueSandboxToken(subject string) (string, error) {
	secret, err := getSandboxSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := SandboxClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    SandboxTokenIssuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(SandboxTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", serr.Wrap(err, "failed to sign sandbox token")
	}
	return signed, nil
}

// ValidateSandboxToken parses a bearer token and checks its signature,
// expiry and issuer.
func ValidateSandboxToken(tokenString string) (*SandboxClaims, error) {
	secret, err := getSandboxSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &SandboxClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, serr.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithIssuer(SandboxTokenIssuer))
	if err != nil {
		return nil, serr.Wrap(err, "failed to parse sandbox token")
	}

	claims, ok := token.Claims.(*SandboxClaims)
	if !ok || !token.Valid {
		return nil, serr.New("invalid sandbox token claims")
	}
	return claims, nil
}
