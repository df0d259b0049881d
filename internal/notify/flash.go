package notify

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

// FlashCookie is the name of the cookie carrying alerts across a redirect.
const FlashCookie = "flash"

// FlashTTL bounds how long a flash cookie is honoured.
const FlashTTL = time.Minute

const keySize = 32

type flashClaims struct {
	Alerts []Alert `json:"alerts"`
	jwt.RegisteredClaims
}

// DeriveKey derives the flash signing key from secret. An empty secret
// yields a random key, so flash cookies do not outlive the process.
func DeriveKey(secret string) ([]byte, error) {
	key := make([]byte, keySize)
	if secret == "" {
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generating flash key: %w", err)
		}
		return key, nil
	}

	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("trgovina flash"))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("deriving flash key: %w", err)
	}
	return key, nil
}

// FlashCodec signs alerts into a cookie and reads them back.
type FlashCodec struct {
	key []byte
	now func() time.Time
}

// NewFlashCodec returns a codec signing with key.
func NewFlashCodec(key []byte) *FlashCodec {
	return &FlashCodec{key: key, now: time.Now}
}

// Encode signs alerts into a token.
func (c *FlashCodec) Encode(alerts []Alert) (string, error) {
	now := c.now()
	claims := flashClaims{
		Alerts: alerts,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(FlashTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("signing flash: %w", err)
	}
	return signed, nil
}

// Decode verifies a token and returns its alerts.
func (c *FlashCodec) Decode(token string) ([]Alert, error) {
	parsed, err := jwt.ParseWithClaims(token, &flashClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.key, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		return nil, fmt.Errorf("parsing flash: %w", err)
	}

	claims, ok := parsed.Claims.(*flashClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid flash")
	}
	return claims.Alerts, nil
}

// Write stores alerts in the flash cookie. Nothing is written for an empty
// list.
func (c *FlashCodec) Write(w http.ResponseWriter, alerts []Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	token, err := c.Encode(alerts)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(FlashTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read returns the alerts of the request's flash cookie and clears it. A
// missing, tampered or expired cookie yields no alerts.
func (c *FlashCodec) Read(w http.ResponseWriter, r *http.Request) []Alert {
	cookie, err := r.Cookie(FlashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	clearFlashCookie(w)

	alerts, err := c.Decode(cookie.Value)
	if err != nil {
		return nil
	}
	return alerts
}

func clearFlashCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
