package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	ownerCookieName = "jump_owner"
	routePrefix     = "/api/v1/sessions/"
)

var (
	ErrNotOwner         = errors.New("session belongs to another client")
	errInvalidSignature = errors.New("invalid signature")
)

// Guard ties a session to the browser that uploaded its video with a signed,
// path-scoped cookie. A Guard without a key lets every request through.
type Guard struct {
	hmacKey []byte
	secure  bool
	maxAge  int
}

func NewGuard(hmacKey []byte, secure bool, ttl time.Duration) *Guard {
	return &Guard{
		hmacKey: hmacKey,
		secure:  secure,
		maxAge:  int(ttl / time.Second),
	}
}

func (g *Guard) Enabled() bool {
	return len(g.hmacKey) > 0
}

func (g *Guard) Grant(c echo.Context, id string) {
	if !g.Enabled() {
		return
	}
	c.SetCookie(g.cookie(id, g.SignValue(id), g.maxAge))
}

func (g *Guard) Revoke(c echo.Context, id string) {
	if !g.Enabled() {
		return
	}
	c.SetCookie(g.cookie(id, "", -1))
}

func (g *Guard) Verify(c echo.Context, id string) error {
	if !g.Enabled() {
		return nil
	}
	cookie, err := c.Cookie(ownerCookieName)
	if err != nil {
		return ErrNotOwner
	}
	payload, err := g.VerifyValue(cookie.Value)
	if err != nil || payload != id {
		return ErrNotOwner
	}
	return nil
}

func (g *Guard) cookie(id, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     ownerCookieName,
		Value:    value,
		Path:     routePrefix + id,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (g *Guard) SignValue(value string) string {
	mac := hmac.New(sha256.New, g.hmacKey)
	mac.Write([]byte(value))
	sig := base64.URLEncoding.EncodeToString(mac.Sum(nil))
	return base64.URLEncoding.EncodeToString([]byte(value)) + "." + sig
}

func (g *Guard) VerifyValue(signed string) (string, error) {
	parts := strings.SplitN(signed, ".", 2)
	if len(parts) != 2 {
		return "", errInvalidSignature
	}

	payload, err := base64.URLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, g.hmacKey)
	mac.Write(payload)
	expectedSig := base64.URLEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(parts[1]), []byte(expectedSig)) {
		return "", errInvalidSignature
	}

	return string(payload), nil
}
