package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// bcrypt ignores input past 72 bytes; longer candidates are refused outright
// so a match is always a match of the whole password.
const maxPasswordBytes = 72

// Credentials is the single static admin identity.
type Credentials struct {
	username string
	hash     []byte
}

func NewCredentials(username, password string) (*Credentials, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password must not be empty", ErrInvalidCredentials)
	}
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password longer than %d bytes", ErrInvalidCredentials, maxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Credentials{username: username, hash: hash}, nil
}

// NewHashedCredentials accepts a password that was bcrypt-hashed ahead of time.
func NewHashedCredentials(username, hash string) (*Credentials, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username must not be empty", ErrInvalidCredentials)
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, err
	}
	return &Credentials{username: username, hash: []byte(hash)}, nil
}

func (c *Credentials) Verify(username, password string) bool {
	if len(password) > maxPasswordBytes {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil
	return userOK && passOK
}

// Subject is the identity recorded in issued sessions.
func (c *Credentials) Subject() string {
	return c.username
}
