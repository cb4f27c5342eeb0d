package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "whsec_test"

func signHeader(t *testing.T, secret string, ts time.Time, payload []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts.Unix())
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func newTestVerifier(now time.Time) *SignatureVerifier {
	v := NewSignatureVerifier(testSecret)
	v.now = func() time.Time { return now }
	return v
}

func TestVerify_ValidSignature(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(now)
	payload := []byte(`{"id":"evt_1"}`)

	header := signHeader(t, testSecret, now, payload)
	assert.NoError(t, v.Verify(payload, header))
}

func TestVerify_WrongSecret(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(now)
	payload := []byte(`{"id":"evt_1"}`)

	header := signHeader(t, "whsec_other", now, payload)
	assert.ErrorIs(t, v.Verify(payload, header), ErrInvalidSignature)
}

func TestVerify_TamperedPayload(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(now)

	header := signHeader(t, testSecret, now, []byte(`{"amount":100}`))
	assert.ErrorIs(t, v.Verify([]byte(`{"amount":999}`), header), ErrInvalidSignature)
}

// 許容を超えて古いイベントはリプレイとして拒否
func TestVerify_TimestampOutsideTolerance(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(now)
	payload := []byte(`{"id":"evt_1"}`)

	old := now.Add(-6 * time.Minute)
	header := signHeader(t, testSecret, old, payload)
	assert.ErrorIs(t, v.Verify(payload, header), ErrInvalidSignature)

	//許容内なら通る
	recent := now.Add(-4 * time.Minute)
	header = signHeader(t, testSecret, recent, payload)
	assert.NoError(t, v.Verify(payload, header))
}

func TestVerify_MalformedHeader(t *testing.T) {
	v := newTestVerifier(time.Unix(1700000000, 0))
	payload := []byte(`{}`)

	for _, header := range []string{
		"",
		"v1=abc",
		"t=notanumber,v1=abc",
		"t=1700000000",
		"garbage",
	} {
		assert.ErrorIs(t, v.Verify(payload, header), ErrInvalidSignature, "header=%q", header)
	}
}

// 複数のv1があればどれか1つ一致すればよい（鍵ローテーション中）
func TestVerify_MultipleSignatures(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(now)
	payload := []byte(`{"id":"evt_1"}`)

	valid := signHeader(t, testSecret, now, payload)
	header := fmt.Sprintf("t=%d,v1=deadbeef,%s", now.Unix(), valid[len(fmt.Sprintf("t=%d,", now.Unix())):])
	assert.NoError(t, v.Verify(payload, header))
}
