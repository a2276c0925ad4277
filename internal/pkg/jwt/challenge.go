package jwt

import (
	"errors"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// ChallengeClaims carry an email verification challenge: the address being
// verified and the HMAC binding of that address to the issued code. The raw
// code never appears in the token.
type ChallengeClaims struct {
	libJWT.RegisteredClaims
	Email   string `json:"email"`
	OTPHash string `json:"otpHash"`
}

// Challenge signs and verifies short-lived email verification tokens using
// HS256. The token is the only server-side artifact of a challenge, so
// issuance stays stateless.
type Challenge struct {
	ttl   time.Duration
	clock clocker
}

// NewChallenge constructs a Challenge signer. A zero ttl defaults to ten
// minutes.
func NewChallenge(ttl time.Duration, clock clocker) *Challenge {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return &Challenge{ttl: ttl, clock: clock}
}

// TTL returns the configured challenge lifetime.
func (c *Challenge) TTL() time.Duration {
	return c.ttl
}

// Generate creates a signed challenge token and returns it together with its
// expiry time.
func (c *Challenge) Generate(secret []byte, email, otpHash string) (string, time.Time, error) {
	now := c.clock.Now()
	expiresAt := now.Add(c.ttl)

	token, err := libJWT.
		NewWithClaims(libJWT.SigningMethodHS256, ChallengeClaims{
			RegisteredClaims: libJWT.RegisteredClaims{
				IssuedAt:  libJWT.NewNumericDate(now),
				ExpiresAt: libJWT.NewNumericDate(expiresAt),
			},
			Email:   email,
			OTPHash: otpHash,
		}).
		SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// Verify parses and validates a challenge token. Expired tokens return
// ErrTokenExpired; any other parse or signature failure returns the
// underlying error.
func (c *Challenge) Verify(secret []byte, tokenStr string) (ChallengeClaims, error) {
	var claims ChallengeClaims

	token, err := libJWT.ParseWithClaims(tokenStr, &claims,
		func(t *libJWT.Token) (any, error) {
			if t.Method != libJWT.SigningMethodHS256 {
				return nil, ErrInvalidSigningMethod
			}
			return secret, nil
		},
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS256.Alg()}),
		libJWT.WithTimeFunc(c.clock.Now),
		libJWT.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, libJWT.ErrTokenExpired) {
			return ChallengeClaims{}, ErrTokenExpired
		}
		return ChallengeClaims{}, err
	}

	if !token.Valid {
		return ChallengeClaims{}, ErrInvalidToken
	}

	return claims, nil
}
