package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of an issued session token.
const DefaultTokenTTL = 24 * time.Hour

// Identity is the set of claims embedded in a session token.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	ID    string `json:"id"`
}

// Claims is the JWT payload carrying an Identity.
type Claims struct {
	Identity
	jwt.RegisteredClaims
}

// VerificationKind distinguishes why a token was rejected.
type VerificationKind int

const (
	// VerificationOther covers failures that are neither expiry nor tampering.
	VerificationOther VerificationKind = iota
	// VerificationExpired means the token was valid but its exp claim has passed.
	VerificationExpired
	// VerificationInvalid means the token is malformed or its signature does not match.
	VerificationInvalid
)

func (k VerificationKind) String() string {
	switch k {
	case VerificationExpired:
		return "expired"
	case VerificationInvalid:
		return "invalid"
	default:
		return "other"
	}
}

// VerificationError is returned by Verify.
type VerificationError struct {
	Kind VerificationKind
	Err  error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("token %s: %v", e.Kind, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// VerificationKindOf extracts the kind from a Verify error.
func VerificationKindOf(err error) VerificationKind {
	var verr *VerificationError
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return VerificationOther
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// IssuerOption customises a TokenIssuer.
type IssuerOption func(*TokenIssuer)

// WithClock overrides the clock used for iat/exp and for verification.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *TokenIssuer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewTokenIssuer builds an issuer. An empty secret is a configuration error.
func NewTokenIssuer(secret string, ttl time.Duration, opts ...IssuerOption) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	issuer := &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer, nil
}

// TTL returns the lifetime given to issued tokens.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for identity that expires after the issuer TTL.
func (i *TokenIssuer) Issue(identity Identity) (string, error) {
	now := i.now()
	claims := Claims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
func (i *TokenIssuer) Verify(tokenString string) (Identity, error) {
	if strings.TrimSpace(tokenString) == "" {
		return Identity{}, &VerificationError{Kind: VerificationInvalid, Err: jwt.ErrTokenMalformed}
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return Identity{}, &VerificationError{Kind: classify(err), Err: err}
	}
	if !token.Valid {
		return Identity{}, &VerificationError{Kind: VerificationOther, Err: errors.New("token is not valid")}
	}

	return claims.Identity, nil
}

func classify(err error) VerificationKind {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return VerificationExpired
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrSignatureInvalid):
		return VerificationInvalid
	default:
		return VerificationOther
	}
}
