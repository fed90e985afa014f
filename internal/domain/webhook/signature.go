package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// SignatureVerifier authenticates webhook deliveries against the shared
// channel secret.
type SignatureVerifier struct {
	secret string
}

// NewSignatureVerifier builds a verifier. An empty secret is tolerated; every
// verification then fails closed instead of crashing the request path.
func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: secret}
}

// Verify reports whether the signature header matches the HMAC-SHA256 of the
// exact raw body bytes under the channel secret, base64 encoded. It must be
// given the bytes as they arrived on the wire; re-serializing a parsed
// payload produces a different sequence and silently breaks verification.
// Verify never panics and never returns an error: any failure is false.
func (v *SignatureVerifier) Verify(rawBody []byte, signature string) bool {
	if v == nil || v.secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
