package session

import (
	"context"
	"crypto/sha512"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"

	"github.com/olimp/hotel-booking/internal/model"
)

// CookieName is the name of the session cookie.
const CookieName = "olimp.sid"

type claims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager ties a Store to the two ways a client presents its session: the
// signed olimp.sid cookie and an HS256 bearer token whose sid claim holds
// the same opaque token.
type Manager struct {
	store  Store
	codec  *securecookie.SecureCookie
	secret []byte
	ttl    time.Duration
	secure bool
}

// Issued is what a successful login hands back to the client.
type Issued struct {
	SID    string
	Bearer string
	Cookie *http.Cookie
}

func NewManager(store Store, secret string, ttl time.Duration, secureCookie bool) *Manager {
	hashKey := sha512.Sum512([]byte(secret))
	codec := securecookie.New(hashKey[:], nil)
	codec.MaxAge(int(ttl / time.Second))
	return &Manager{store: store, codec: codec, secret: []byte(secret), ttl: ttl, secure: secureCookie}
}

// Issue creates a server-side session for the user and returns the cookie
// and bearer token that reference it.
func (m *Manager) Issue(ctx context.Context, userID uint64, login string) (Issued, error) {
	now := time.Now().UTC()
	sid, err := m.store.Create(ctx, model.Session{UserID: userID, Login: login, CreatedAt: now})
	if err != nil {
		return Issued{}, err
	}
	value, err := m.codec.Encode(CookieName, sid)
	if err != nil {
		return Issued{}, err
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	bearer, err := t.SignedString(m.secret)
	if err != nil {
		return Issued{}, err
	}
	return Issued{SID: sid, Bearer: bearer, Cookie: m.cookie(value, int(m.ttl/time.Second))}, nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the session cookie on the client.
func (m *Manager) ClearCookie() *http.Cookie { return m.cookie("", -1) }

// candidateTokens returns the opaque session tokens r carries, the cookie's
// first. Tampered or expired references are skipped.
func (m *Manager) candidateTokens(r *http.Request) []string {
	var out []string
	if ck, err := r.Cookie(CookieName); err == nil && ck.Value != "" {
		var sid string
		if err := m.codec.Decode(CookieName, ck.Value, &sid); err == nil && sid != "" {
			out = append(out, sid)
		}
	}
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return out
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	var cl claims
	tok, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err == nil && tok.Valid && cl.SID != "" && (len(out) == 0 || out[0] != cl.SID) {
		out = append(out, cl.SID)
	}
	return out
}

// Resolve returns the session referenced by r, or nil when there is none.
// A cookie pointing at a session that no longer exists does not hide a
// valid bearer token. Only store failures are reported as errors.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (*model.Session, string, error) {
	for _, sid := range m.candidateTokens(r) {
		sess, err := m.store.Get(ctx, sid)
		if errors.Is(err, ErrNoSession) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return sess, sid, nil
	}
	return nil, "", nil
}

// Revoke deletes the server-side record.
func (m *Manager) Revoke(ctx context.Context, sid string) error {
	return m.store.Delete(ctx, sid)
}
