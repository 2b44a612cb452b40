package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrNoUserID     = errors.New("user id missing in token")
)

// Claims are the fields the top-up service reads from an access token.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Validator checks RS256 access tokens minted by the auth service.
type Validator struct {
	publicKey *rsa.PublicKey
	issuer    string
}

// LoadValidator reads the auth service's PEM public key from disk.
func LoadValidator(publicKeyPath, issuer string) (*Validator, error) {
	data, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return NewValidator(key, issuer), nil
}

func NewValidator(key *rsa.PublicKey, issuer string) *Validator {
	return &Validator{publicKey: key, issuer: issuer}
}

// Parse validates a raw token and returns its claims. The user id falls back
// to the subject claim.
func (v *Validator) Parse(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	}, opts...); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, ErrNoUserID
	}
	return claims, nil
}

// FromHeader validates the bearer token in an Authorization header.
func (v *Validator) FromHeader(header string) (*Claims, error) {
	token := strings.TrimSpace(header)
	if token == "Bearer" || strings.HasPrefix(token, "Bearer ") {
		token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer"))
	}
	if token == "" {
		return nil, ErrMissingToken
	}
	return v.Parse(token)
}
