// Package cursor issues and verifies the opaque, signed, expiring tokens
// that let a caller resume a paginated traversal: base64url(payload_json) +
// "." + base64url(HMAC-SHA256(secret, payload_b64_bytes)).
package cursor

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Sentinel errors distinguishing the two ways a token can fail verification.
// Callers map these to distinct HTTP statuses (410 and 400 respectively),
// kept apart from the session-not-found (404) and query-mismatch (409)
// failures that can follow a successful verification, rather than
// collapsing them into one generic "bad cursor" response.
var (
	// ErrExpired means the token parsed and verified but its exp has passed.
	ErrExpired = errors.New("cursor: token expired")
	// ErrInvalid means the token is malformed or its signature does not
	// match — it was never issued by this server, or has been tampered
	// with.
	ErrInvalid = errors.New("cursor: invalid token")
)

// Payload is the signed content of a cursor token.
type Payload struct {
	SID string `json:"sid"`
	QH  string `json:"qh"`
	IAT int64  `json:"iat"`
	Exp int64  `json:"exp"`
}

// Codec issues and verifies cursor tokens using a fixed HMAC-SHA256 signing
// key. Stateless and safe for concurrent use.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec creates a Codec with the given signing secret. The secret must be
// kept server-side only; it is never embedded in or derivable from a token.
func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret, now: time.Now}
}

// Issued is the result of issuing a new token.
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// Issue builds a new signed token binding sessionID and queryHash, valid for
// ttl from now. Reissuing a token for the same session implements the
// spec's sliding-TTL behavior: the previous token remains independently
// valid until its own exp, since tokens are stateless and self-contained —
// there is nothing to revoke.
func (c *Codec) Issue(sessionID, queryHash string, ttl time.Duration) (Issued, error) {
	now := c.now()
	exp := now.Add(ttl)

	payload := Payload{
		SID: sessionID,
		QH:  queryHash,
		IAT: now.Unix(),
		Exp: exp.Unix(),
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return Issued{}, err
	}

	payloadB64 := base64.RawURLEncoding.EncodeToString(payloadJSON)
	sig := c.sign([]byte(payloadB64))
	sigB64 := base64.RawURLEncoding.EncodeToString(sig)

	return Issued{
		Token:     payloadB64 + "." + sigB64,
		ExpiresAt: exp,
	}, nil
}

// Verify checks a token's signature and expiry, returning its payload.
// Returns ErrExpired if the signature is valid but exp has passed, or
// ErrInvalid for any malformed token or signature mismatch. Signature
// comparison is constant-time.
func (c *Codec) Verify(token string) (Payload, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Payload{}, ErrInvalid
	}

	payloadB64, sigB64 := parts[0], parts[1]

	sig, err := base64.RawURLEncoding.DecodeString(sigB64)
	if err != nil {
		return Payload{}, ErrInvalid
	}

	expectedSig := c.sign([]byte(payloadB64))
	if !hmac.Equal(sig, expectedSig) {
		return Payload{}, ErrInvalid
	}

	payloadJSON, err := base64.RawURLEncoding.DecodeString(payloadB64)
	if err != nil {
		return Payload{}, ErrInvalid
	}

	var payload Payload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return Payload{}, ErrInvalid
	}

	if payload.Exp < c.now().Unix() {
		return Payload{}, ErrExpired
	}

	return payload, nil
}

func (c *Codec) sign(payloadB64 []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payloadB64)

	return mac.Sum(nil)
}
