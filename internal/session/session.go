// Package session issues and verifies the signed cookie that carries a
// visitor's session ID, and binds that ID to the request context.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey struct{}

// WithID returns a copy of ctx carrying the session ID.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the session ID bound to ctx.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// Signer signs session IDs with HMAC-SHA256.
type Signer struct {
	key []byte
}

// NewSigner creates a signer for the given secret.
func NewSigner(secret string) *Signer {
	return &Signer{key: []byte(secret)}
}

// Sign returns the token "<id>.<signature>".
func (s *Signer) Sign(id string) string {
	return id + "." + base64.RawURLEncoding.EncodeToString(s.mac(id))
}

// Verify returns the ID carried by token if its signature is valid and the
// ID is a UUID.
func (s *Signer) Verify(token string) (string, bool) {
	id, sig, ok := strings.Cut(token, ".")
	if !ok {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}

	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(got, s.mac(id)) {
		return "", false
	}
	return id, true
}

func (s *Signer) mac(id string) []byte {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(id))
	return h.Sum(nil)
}

// Options configures the session cookie.
type Options struct {
	CookieName string
	Secure     bool
	TTL        time.Duration
}

// Manager resolves the session for each request, issuing a new one when the
// cookie is missing or fails verification.
type Manager struct {
	signer *Signer
	opts   Options
	newID  func() string
	logger zerolog.Logger
}

// NewManager creates a session manager.
func NewManager(secret string, opts Options, logger zerolog.Logger) *Manager {
	return &Manager{
		signer: NewSigner(secret),
		opts:   opts,
		newID:  func() string { return uuid.NewString() },
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// Resolve returns the request's session ID and refreshes the cookie on w.
// The second result reports whether a new session was issued.
func (m *Manager) Resolve(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := m.fromRequest(r)
	issued := !ok
	if issued {
		id = m.newID()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    m.signer.Sign(id),
		Path:     "/",
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id, issued
}

func (m *Manager) fromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil {
		return "", false
	}

	id, ok := m.signer.Verify(cookie.Value)
	if !ok {
		m.logger.Warn().
			Str("remote_addr", r.RemoteAddr).
			Msg("rejected session cookie with invalid signature")
		return "", false
	}
	return id, true
}
