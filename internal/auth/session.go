package auth

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// payloadEncoding rejects non-canonical encodings so that every distinct token
// string decodes to a distinct payload.
var payloadEncoding = base64.RawURLEncoding.Strict()

// Session is the verified content of a session token.
type Session struct {
	Subject  string
	IssuedAt time.Time
}

type sessionPayload struct {
	Subject  string `json:"u"`
	IssuedAt int64  `json:"t"`
}

// Sessions issues and verifies stateless tokens of the form
// base64url(payload) "." hex(HMAC-SHA256(payload)).
//
// Tokens carry their issue time but are never expired here; the cookie
// lifetime is the only freshness bound and there is no revocation.
type Sessions struct {
	secret []byte
	now    func() time.Time
}

func NewSessions(secret string) *Sessions {
	return &Sessions{
		secret: []byte(secret),
		now:    time.Now,
	}
}

func (s *Sessions) Issue(subject string) (string, error) {
	payload, err := json.Marshal(sessionPayload{
		Subject:  subject,
		IssuedAt: s.now().UnixMilli(),
	})
	if err != nil {
		return "", err
	}

	sig, err := jwt.SigningMethodHS256.Sign(string(payload), s.secret)
	if err != nil {
		return "", err
	}

	return payloadEncoding.EncodeToString(payload) + "." + hex.EncodeToString(sig), nil
}

func (s *Sessions) Verify(token string) bool {
	_, err := s.Parse(token)
	return err == nil
}

func (s *Sessions) Parse(token string) (Session, error) {
	dot := strings.LastIndexByte(token, '.')
	if dot < 0 {
		return Session{}, ErrInvalidToken
	}
	encPayload, encSig := token[:dot], token[dot+1:]

	payload, err := payloadEncoding.DecodeString(encPayload)
	if err != nil {
		return Session{}, ErrInvalidToken
	}

	sig, err := hex.DecodeString(encSig)
	if err != nil || hex.EncodeToString(sig) != encSig {
		return Session{}, ErrInvalidToken
	}

	if err := jwt.SigningMethodHS256.Verify(string(payload), sig, s.secret); err != nil {
		return Session{}, ErrInvalidToken
	}

	var p sessionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return Session{}, ErrInvalidToken
	}

	return Session{
		Subject:  p.Subject,
		IssuedAt: time.UnixMilli(p.IssuedAt),
	}, nil
}
