package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType tags the intended use of a token. Verification never enforces it;
// the type-checked entry points (RefreshAccessToken, VerifyVerificationToken)
// do, because those are the places type confusion has security impact.
type TokenType string

const (
	// TypeAccess marks short-lived API access tokens.
	TypeAccess TokenType = "access"
	// TypeRefresh marks tokens exchangeable for a new access token.
	TypeRefresh TokenType = "refresh"
	// TypeVerification marks single-purpose email verification tokens.
	TypeVerification TokenType = "verification"
)

// Verification failure taxonomy. The variants are mutually exclusive: a token
// that fails signature verification is never reported as expired, and a token
// that decodes but is outside its validity window is never reported as
// malformed.
var (
	// ErrTokenExpired is returned when exp plus leeway is in the past.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenNotYetValid is returned when nbf minus leeway is in the future.
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	// ErrInvalidSignature is returned on an HMAC mismatch.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrInvalidIssuer is returned when the iss claim does not match the
	// configured issuer.
	ErrInvalidIssuer = errors.New("invalid token issuer")
	// ErrMalformedToken is returned for structurally invalid input: bad
	// base64, bad JSON, or a disallowed algorithm.
	ErrMalformedToken = errors.New("malformed token")
	// ErrEncodingFailed wraps signing/serialization failures at issuance.
	ErrEncodingFailed = errors.New("token encoding error")
	// ErrInvalidTokenType matches any *InvalidTokenTypeError via errors.Is.
	ErrInvalidTokenType = errors.New("invalid token type")
)

// InvalidTokenTypeError reports a type check failure after a successful
// decode, carrying the type the caller required.
type InvalidTokenTypeError struct {
	Expected TokenType
}

func (e *InvalidTokenTypeError) Error() string {
	return fmt.Sprintf("invalid token type, expected: %s", e.Expected)
}

// Is reports whether target is [ErrInvalidTokenType].
func (e *InvalidTokenTypeError) Is(target error) bool {
	return target == ErrInvalidTokenType
}

const (
	defaultLeeway = 30 * time.Second
	maxLeeway     = 2 * time.Minute
	minSecretLen  = 32
)

// Config holds the signing key and per-type lifetimes. A single secret and a
// single algorithm (HS256) per deployment.
type Config struct {
	Secret          []byte
	Issuer          string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	VerificationTTL time.Duration
	Leeway          time.Duration
}

// Claims is the signed payload: the registered sub/exp/iat/nbf/iss claims
// plus the token type tag and a snapshot of the account's verification state
// at issuance time. The snapshot is deliberately not re-checked against the
// user store on every request.
type Claims struct {
	TokenType  TokenType `json:"token_type"`
	IsVerified bool      `json:"is_verified"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim as a UUID.
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrMalformedToken
	}
	return id, nil
}

// Manager issues and verifies typed HMAC-SHA256 tokens. It is a pure function
// of its configuration and safe for concurrent use.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a ready Manager.
//
// Validation rules: the secret must be at least 32 bytes (HS256 key size),
// AccessTTL must be positive and at most 24 hours, RefreshTTL must exceed
// AccessTTL, VerificationTTL must be positive, and Leeway (defaulting to 30s)
// may not exceed 2 minutes.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < minSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes for HS256", minSecretLen)
	}
	if cfg.AccessTTL <= 0 || cfg.AccessTTL > 24*time.Hour {
		return nil, errors.New("access token TTL must be between 1 second and 24 hours")
	}
	if cfg.RefreshTTL <= cfg.AccessTTL {
		return nil, errors.New("refresh token TTL must be greater than access token TTL")
	}
	if cfg.VerificationTTL <= 0 {
		return nil, errors.New("verification token TTL must be positive")
	}
	if cfg.Leeway == 0 {
		cfg.Leeway = defaultLeeway
	}
	if cfg.Leeway < 0 || cfg.Leeway > maxLeeway {
		return nil, errors.New("invalid leeway configuration")
	}

	return &Manager{config: cfg}, nil
}

// Leeway returns the configured clock-skew tolerance.
func (m *Manager) Leeway() time.Duration {
	return m.config.Leeway
}

// Generate mints a token of the given type with iat = nbf = now and
// exp = now + ttl. Negative TTLs are accepted: the result is a well-formed,
// already-expired token, which expiry tests rely on.
func (m *Manager) Generate(subject uuid.UUID, verified bool, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType:  typ,
		IsVerified: verified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.Secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}
	return signed, nil
}

// GenerateAccessToken mints an access token with the configured access TTL.
func (m *Manager) GenerateAccessToken(subject uuid.UUID, verified bool) (string, error) {
	return m.Generate(subject, verified, TypeAccess, m.config.AccessTTL)
}

// GenerateRefreshToken mints a refresh token with the configured refresh TTL.
func (m *Manager) GenerateRefreshToken(subject uuid.UUID, verified bool) (string, error) {
	return m.Generate(subject, verified, TypeRefresh, m.config.RefreshTTL)
}

// GenerateVerificationToken mints an email verification token. is_verified is
// always false: verification tokens pre-date the account being verified.
func (m *Manager) GenerateVerificationToken(subject uuid.UUID) (string, error) {
	return m.Generate(subject, false, TypeVerification, m.config.VerificationTTL)
}

// Verify decodes a token and returns its claims unchanged if the signature
// matches and the current time is within [nbf-leeway, exp+leeway]. Verify
// does not enforce the token type; callers check TokenType against what they
// expect, which keeps Verify reusable across all three kinds.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(m.config.Leeway),
		jwt.WithExpirationRequired(),
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// RefreshAccessToken verifies a refresh token and mints a fresh access token
// carrying the same subject and is_verified flag. Any other token type is
// rejected: an access token must never be exchanged for a new access token,
// and a verification token must never yield API access.
func (m *Manager) RefreshAccessToken(refreshToken string) (string, error) {
	claims, err := m.Verify(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TypeRefresh {
		return "", &InvalidTokenTypeError{Expected: TypeRefresh}
	}

	subject, err := claims.UserID()
	if err != nil {
		return "", err
	}
	return m.GenerateAccessToken(subject, claims.IsVerified)
}

// VerifyVerificationToken verifies an email verification token and returns
// the subject it was issued for.
func (m *Manager) VerifyVerificationToken(tokenStr string) (uuid.UUID, error) {
	claims, err := m.Verify(tokenStr)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.TokenType != TypeVerification {
		return uuid.Nil, &InvalidTokenTypeError{Expected: TypeVerification}
	}
	return claims.UserID()
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrTokenNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrInvalidIssuer
	default:
		return ErrMalformedToken
	}
}
