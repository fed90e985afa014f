package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, body []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerify_ValidSignature(t *testing.T) {
	verifier := NewSignatureVerifier("channel-secret")
	body := []byte(`{"events":[]}`)
	require.True(t, verifier.Verify(body, sign(t, "channel-secret", body)))
}

func TestVerify_EmptyBody(t *testing.T) {
	verifier := NewSignatureVerifier("channel-secret")
	require.True(t, verifier.Verify([]byte{}, sign(t, "channel-secret", nil)))
}

func TestVerify_NonUTF8Body(t *testing.T) {
	verifier := NewSignatureVerifier("channel-secret")
	body := []byte{0xff, 0xfe, 0x00, 0x9f, 0x92, 0x96}
	require.True(t, verifier.Verify(body, sign(t, "channel-secret", body)))
}

func TestVerify_SingleByteTamper(t *testing.T) {
	verifier := NewSignatureVerifier("channel-secret")
	body := []byte(`{"events":[{"type":"message"}]}`)
	signature := sign(t, "channel-secret", body)

	for i := range body {
		tampered := append([]byte(nil), body...)
		tampered[i] ^= 0x01
		require.False(t, verifier.Verify(tampered, signature), "byte %d", i)
	}
}

func TestVerify_MissingSignature(t *testing.T) {
	verifier := NewSignatureVerifier("channel-secret")
	require.False(t, verifier.Verify([]byte(`{}`), ""))
}

func TestVerify_UnsetSecret(t *testing.T) {
	verifier := NewSignatureVerifier("")
	body := []byte(`{}`)
	require.False(t, verifier.Verify(body, sign(t, "", body)))
}

func TestVerify_WrongSecret(t *testing.T) {
	verifier := NewSignatureVerifier("channel-secret")
	body := []byte(`{}`)
	require.False(t, verifier.Verify(body, sign(t, "other-secret", body)))
}

func TestVerify_ReserializedBodyBreaks(t *testing.T) {
	verifier := NewSignatureVerifier("channel-secret")
	raw := []byte(`{"events": []}`)
	reserialized := []byte(`{"events":[]}`)
	require.False(t, verifier.Verify(reserialized, sign(t, "channel-secret", raw)))
}
