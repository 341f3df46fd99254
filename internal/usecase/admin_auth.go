package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"kazi-hub/internal/pkg/jwt"
)

type AdminAuthUsecase interface {
	Enabled() bool
	VerifySecret(secret string) bool
	VerifyToken(token string) error
	IssueToken(ctx context.Context, secret string) (string, time.Time, error)
}

// AdminAuth gates the admin endpoints. The shared secret is kept only as
// a bcrypt hash; callers present either the raw secret or a bearer token
// previously exchanged for it.
type AdminAuth struct {
	secretHash []byte
	jwt        jwt.Service
	log        *log.Logger
}

func NewAdminAuthUsecase(secret string, jwtSvc jwt.Service, logger *log.Logger) *AdminAuth {
	u := &AdminAuth{jwt: jwtSvc, log: logger}

	secret = strings.TrimSpace(secret)
	if secret == "" {
		if logger != nil {
			logger.Printf("[Auth] admin secret not set, admin endpoints disabled")
		}
		return u
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		if logger != nil {
			logger.Printf("[Auth] admin secret hash failed, admin endpoints disabled | err=%v", err)
		}
		return u
	}
	u.secretHash = hash
	return u
}

func (u *AdminAuth) Enabled() bool {
	return u != nil && len(u.secretHash) > 0
}

func (u *AdminAuth) VerifySecret(secret string) bool {
	if !u.Enabled() {
		return false
	}
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(u.secretHash, []byte(secret)) == nil
}

func (u *AdminAuth) VerifyToken(token string) error {
	if !u.Enabled() || u.jwt == nil {
		return ErrUnauthorized
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrUnauthorized
	}
	if _, err := u.jwt.ValidateToken(token); err != nil {
		return ErrUnauthorized
	}
	return nil
}

func (u *AdminAuth) IssueToken(ctx context.Context, secret string) (string, time.Time, error) {
	if !u.Enabled() || u.jwt == nil {
		return "", time.Time{}, ErrUnauthorized
	}
	if !u.VerifySecret(secret) {
		return "", time.Time{}, ErrUnauthorized
	}

	token, exp, err := u.jwt.GenerateAdminToken()
	if err != nil {
		if u.log != nil {
			u.log.Printf("[Auth] token generation failed | err=%v", err)
		}
		return "", time.Time{}, ErrInternal
	}
	return token, exp, nil
}
