package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrExpired   = errors.New("token expired")
	ErrMalformed = errors.New("token malformed")
)

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

type Claims struct {
	Role string `json:"role"`
	Kind Kind   `json:"typ"`
	jwt.RegisteredClaims
}

type Codec struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewCodec(secret []byte, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{Secret: secret, AccessTTL: accessTTL, RefreshTTL: refreshTTL}
}

func (c *Codec) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Codec) ttl(kind Kind) (time.Duration, error) {
	switch kind {
	case KindAccess:
		return c.AccessTTL, nil
	case KindRefresh:
		return c.RefreshTTL, nil
	}
	return 0, fmt.Errorf("unknown token kind %q", kind)
}

// Issue signs a token for subject and returns it together with its expiry.
func (c *Codec) Issue(subject, role string, kind Kind) (string, time.Time, error) {
	if len(c.Secret) == 0 {
		return "", time.Time{}, errors.New("token secret is empty")
	}
	ttl, err := c.ttl(kind)
	if err != nil {
		return "", time.Time{}, err
	}

	now := c.now()
	claims := Claims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify decodes token and checks its signature and expiry. Expiry is judged on
// the decoded claims first, so an expired token reports ErrExpired even when its
// signature does not match.
func (c *Codec) Verify(token string) (*Claims, error) {
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	_, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return c.Secret, nil
	})
	if err != nil && errors.Is(err, jwt.ErrTokenMalformed) {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if claims.ExpiresAt != nil && !c.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrExpired
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch {
	case claims.Subject == "":
		return nil, fmt.Errorf("%w: missing subject", ErrMalformed)
	case claims.Role == "":
		return nil, fmt.Errorf("%w: missing role", ErrMalformed)
	case claims.ExpiresAt == nil:
		return nil, fmt.Errorf("%w: missing expiry", ErrMalformed)
	case claims.Kind != KindAccess && claims.Kind != KindRefresh:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformed, claims.Kind)
	}
	return &claims, nil
}

func (c *Codec) SubjectOf(token string) (string, error) {
	claims, err := c.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (c *Codec) RoleOf(token string) (string, error) {
	claims, err := c.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}
