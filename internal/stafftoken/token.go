package stafftoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultIssuer   = "cakeshop"
	DefaultAudience = "cakeshop-admin"
	DefaultTTL      = time.Hour
)

var (
	ErrInvalidToken   = errors.New("invalid staff token")
	ErrMissingSubject = errors.New("staff token has no subject")
)

// Staff is the verified identity carried by a token.
type Staff struct {
	Subject string
	Roles   []string
}

type claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

type settings struct {
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// Option configures an Issuer or a Verifier.
type Option func(*settings)

// WithIssuer sets the iss claim issued and required.
func WithIssuer(issuer string) Option {
	return func(s *settings) {
		s.issuer = issuer
	}
}

// WithAudience sets the aud claim issued and required.
func WithAudience(audience string) Option {
	return func(s *settings) {
		s.audience = audience
	}
}

// WithTTL sets how long issued tokens stay valid.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		s.ttl = ttl
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		issuer:   DefaultIssuer,
		audience: DefaultAudience,
		ttl:      DefaultTTL,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// Issuer signs staff tokens with RS256.
type Issuer struct {
	keys     PrivateKeyFetcher
	settings settings
}

// NewIssuer creates an Issuer using keys for signing.
func NewIssuer(keys PrivateKeyFetcher, opts ...Option) *Issuer {
	return &Issuer{keys: keys, settings: newSettings(opts)}
}

// Issue signs a token for subject carrying roles.
func (i *Issuer) Issue(subject string, roles []string) (string, error) {
	if subject == "" {
		return "", ErrMissingSubject
	}

	privateKey, err := i.keys.FetchPrivateKey()
	if err != nil {
		return "", fmt.Errorf("failed to fetch private key: %w", err)
	}

	now := i.settings.now()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    i.settings.issuer,
			Audience:  jwt.ClaimStrings{i.settings.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.settings.ttl)),
		},
	})

	signed, err := token.SignedString(privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign staff token: %w", err)
	}

	return signed, nil
}

// Verifier checks staff tokens signed by an Issuer.
type Verifier struct {
	keys     PublicKeyFetcher
	settings settings
}

// NewVerifier creates a Verifier using keys for signature checks.
func NewVerifier(keys PublicKeyFetcher, opts ...Option) *Verifier {
	return &Verifier{keys: keys, settings: newSettings(opts)}
}

// Verify parses token and returns the staff identity it carries.
func (v *Verifier) Verify(token string) (*Staff, error) {
	publicKey, err := v.keys.FetchPublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch public key: %w", err)
	}

	parsed := new(claims)
	_, err = jwt.ParseWithClaims(token, parsed, func(_ *jwt.Token) (any, error) {
		return publicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.settings.issuer),
		jwt.WithAudience(v.settings.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.settings.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if parsed.Subject == "" {
		return nil, ErrMissingSubject
	}

	return &Staff{Subject: parsed.Subject, Roles: parsed.Roles}, nil
}
