// Package sessioncookie issues and verifies the signed cookie that
// identifies one browser client of the web service.
package sessioncookie

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/louisbranch/facelogin/internal/services/web/platform/requestmeta"
)

const (
	// Name is the canonical client cookie name.
	Name = "facelogin_client"

	issuer = "facelogin-web"
	// MaxAge bounds both the cookie and the token lifetime.
	MaxAge = 365 * 24 * time.Hour
	// MinSecretLen is the shortest accepted HMAC secret.
	MinSecretLen = 32
)

// ErrInvalid reports a missing, malformed, or tampered client cookie.
var ErrInvalid = errors.New("client cookie is invalid")

// Codec signs client ids into HS256 tokens and verifies them on read.
type Codec struct {
	secret []byte
	policy requestmeta.SchemePolicy
	now    func() time.Time
}

// NewCodec builds a Codec. The secret must be at least MinSecretLen bytes.
func NewCodec(secret []byte, policy requestmeta.SchemePolicy) (*Codec, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("cookie secret must be at least %d bytes", MinSecretLen)
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Codec{secret: key, policy: policy, now: time.Now}, nil
}

// Read returns the verified client id carried by the request cookie.
func (c *Codec) Read(r *http.Request) (string, error) {
	if c == nil || r == nil {
		return "", ErrInvalid
	}
	cookie, err := r.Cookie(Name)
	if err != nil || cookie == nil {
		return "", ErrInvalid
	}
	raw := strings.TrimSpace(cookie.Value)
	if raw == "" {
		return "", ErrInvalid
	}

	var claims jwt.RegisteredClaims
	_, err = jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	clientID := strings.TrimSpace(claims.Subject)
	if clientID == "" {
		return "", ErrInvalid
	}
	return clientID, nil
}

// Write signs clientID and sets it as the client cookie.
func (c *Codec) Write(w http.ResponseWriter, r *http.Request, clientID string) error {
	if c == nil || w == nil {
		return errors.New("cookie codec is not configured")
	}
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return errors.New("client id is required")
	}
	now := c.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   clientID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(MaxAge)),
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return fmt.Errorf("sign client cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r, c.policy),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
