package wm

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Token is the capability secret bound to a WindowLike when it joins a
// layer. A window passes it with its own requests to have them trusted. The
// zero Token is "no token".
type Token struct {
	secret string
}

// NewToken returns 16 random bytes rendered as upper-case hex.
func NewToken() Token {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("wm: reading random bytes: " + err.Error())
	}
	return Token{secret: strings.ToUpper(hex.EncodeToString(b[:]))}
}

// IsZero reports whether t carries no secret.
func (t Token) IsZero() bool { return t.secret == "" }

// Matches reports whether t equals other in constant time. Two zero tokens
// never match.
func (t Token) Matches(other Token) bool {
	if t.IsZero() || other.IsZero() {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(t.secret), []byte(other.secret)) == 1
}

// String hides the secret so tokens are safe to log.
func (t Token) String() string {
	if t.IsZero() {
		return "Token(none)"
	}
	return "Token(" + t.secret[:4] + "…)"
}
