// internal/token/token.go
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// CookieName is the name of the authentication cookie.
const CookieName = "__ac"

// ErrMalformedToken indicates a cookie value that cannot be decoded at all:
// broken percent-encoding, broken base64, or a payload without the NUL
// separator. A well-formed value with a wrong signature is NOT malformed.
var ErrMalformedToken = errors.New("malformed authentication token")

// Sign computes the hex-encoded HMAC-SHA256 signature of username under secret.
func Sign(secret []byte, username string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(username))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature for username and compares it to the
// presented one in constant time.
func Verify(secret []byte, username, signature string) bool {
	return hmac.Equal([]byte(Sign(secret, username)), []byte(signature))
}

// Encode packs a username and signature into a cookie-safe string:
// base64(username || NUL || signature), then percent-encoded so the value
// survives cookie headers and URL transport.
func Encode(username, signature string) string {
	payload := username + "\x00" + signature
	return url.QueryEscape(base64.StdEncoding.EncodeToString([]byte(payload)))
}

// Decode is the exact inverse of Encode. It returns ErrMalformedToken when
// the value does not round-trip.
func Decode(cookieValue string) (username, signature string, err error) {
	unescaped, err := url.QueryUnescape(cookieValue)
	if err != nil {
		return "", "", ErrMalformedToken
	}
	raw, err := base64.StdEncoding.DecodeString(unescaped)
	if err != nil {
		return "", "", ErrMalformedToken
	}
	username, signature, ok := strings.Cut(string(raw), "\x00")
	if !ok {
		return "", "", ErrMalformedToken
	}
	return username, signature, nil
}

// MintCookie produces a ready-to-set authentication cookie for username,
// signed with the same scheme Verify checks.
func MintCookie(secret []byte, username string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    Encode(username, Sign(secret, username)),
		Path:     "/",
		HttpOnly: true,
	}
}
