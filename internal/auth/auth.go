package auth

import (
	"context"
	"errors"
	"net/url"

	"github.com/pairtalk/pairtalk/internal/auth/jwt"
	"github.com/pairtalk/pairtalk/internal/common/config"
)

var ErrMissingCredential = errors.New("missing credential")

// Validator turns a bearer credential into a verified identity.
type Validator interface {
	// Validate returns the identity owning the credential, or an error when
	// the credential is missing, malformed, expired or forged.
	Validate(ctx context.Context, credential string) (string, error)
}

// NewValidator builds the production validator from configuration.
func NewValidator(cfg config.AuthConfig) (Validator, error) {
	svc, err := jwt.NewService(jwt.Config{
		SecretKey: cfg.JWT.SecretKey,
		Duration:  cfg.JWT.Duration,
	})
	if err != nil {
		return nil, err
	}
	return &jwtValidator{svc: svc}, nil
}

type jwtValidator struct {
	svc *jwt.Service
}

func (v *jwtValidator) Validate(_ context.Context, credential string) (string, error) {
	if credential == "" {
		return "", ErrMissingCredential
	}
	claims, err := v.svc.ValidateToken(credential)
	if err != nil {
		return "", err
	}
	if claims.Username == "" {
		return "", jwt.ErrInvalidToken
	}
	return claims.Username, nil
}

// CredentialFromQuery extracts the bearer credential from the connection
// request's query string.
func CredentialFromQuery(q url.Values) (string, error) {
	if token := q.Get("token"); token != "" {
		return token, nil
	}
	return "", ErrMissingCredential
}
