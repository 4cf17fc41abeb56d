package auth

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

const DelegationType = "delegation"

// DelegationClaims scope a principal to a set of wallets. No targets means every wallet.
type DelegationClaims struct {
	Principal string   `json:"principal"`
	Targets   []string `json:"targets,omitempty"`
	Type      string   `json:"type"`
	jwt.RegisteredClaims
}

func (c *DelegationClaims) Allows(walletId string) bool {
	return len(c.Targets) == 0 || slices.Contains(c.Targets, walletId)
}

var (
	ErrMissingToken = errors.New("missing delegation token")
	ErrInvalidToken = errors.New("invalid delegation token")
	ErrNotBearer    = errors.New("authorization scheme is not Bearer")
)

type Verifier struct {
	publicKey *ecdsa.PublicKey
}

func NewVerifier(publicKey *ecdsa.PublicKey) *Verifier {
	return &Verifier{publicKey: publicKey}
}

// Verify checks the ES256 signature, expiry and token type.
func (v *Verifier) Verify(tokenString string) (*DelegationClaims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	claims := &DelegationClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.publicKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != DelegationType {
		return nil, fmt.Errorf("%w: token type %q", ErrInvalidToken, claims.Type)
	}
	if claims.Principal == "" {
		return nil, fmt.Errorf("%w: missing principal", ErrInvalidToken)
	}
	return claims, nil
}

func LoadPublicKey(path string) (*ecdsa.PublicKey, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key %q: %w", path, err)
	}
	return ParsePublicKey(string(pemBytes))
}

func ParsePublicKey(pemStr string) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	ecdsaPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not ECDSA")
	}

	return ecdsaPub, nil
}
