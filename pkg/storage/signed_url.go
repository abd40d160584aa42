package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidLink is returned for tokens that are malformed, tampered with or expired.
var ErrInvalidLink = errors.New("invalid or expired link")

// LinkSigner issues HMAC signed tokens naming an owner and a stored file.
type LinkSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewLinkSigner constructs a signer. Links live for ttl (a week by default).
func NewLinkSigner(secret string, ttl time.Duration) *LinkSigner {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &LinkSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL reports how long issued links stay valid.
func (s *LinkSigner) TTL() time.Duration {
	return s.ttl
}

// Sign returns a token of the form owner.expiry.path.signature.
func (s *LinkSigner) Sign(owner, relPath string) (string, time.Time, error) {
	if owner == "" || relPath == "" {
		return "", time.Time{}, fmt.Errorf("owner and path required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	parts := []string{
		base64.RawURLEncoding.EncodeToString([]byte(owner)),
		strconv.FormatInt(expiresAt.Unix(), 10),
		base64.RawURLEncoding.EncodeToString([]byte(relPath)),
	}
	parts = append(parts, s.sign(parts))
	return strings.Join(parts, "."), expiresAt, nil
}

// Verify checks a token and returns the owner and path it names.
func (s *LinkSigner) Verify(token string) (owner, relPath string, expiresAt time.Time, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 || len(s.secret) == 0 {
		return "", "", time.Time{}, ErrInvalidLink
	}
	if !hmac.Equal([]byte(s.sign(parts[:3])), []byte(parts[3])) {
		return "", "", time.Time{}, ErrInvalidLink
	}

	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", "", time.Time{}, ErrInvalidLink
	}
	expiresAt = time.Unix(exp, 0)
	if s.now().After(expiresAt) {
		return "", "", time.Time{}, ErrInvalidLink
	}

	rawOwner, errOwner := base64.RawURLEncoding.DecodeString(parts[0])
	rawPath, errPath := base64.RawURLEncoding.DecodeString(parts[2])
	if errOwner != nil || errPath != nil {
		return "", "", time.Time{}, ErrInvalidLink
	}
	return string(rawOwner), string(rawPath), expiresAt, nil
}

func (s *LinkSigner) sign(parts []string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(mac.Sum(nil))
}
