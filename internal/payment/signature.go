package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 署名が一致しない・ヘッダが壊れている・古すぎる、のすべてでこれを返す
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Stripe-Signatureヘッダの検証。
// ヘッダは "t=<unix>,v1=<hex>[,v1=...]" 形式で、
// 署名は HMAC-SHA256(secret, "<t>.<body>") のhex。
type SignatureVerifier struct {
	secret    []byte
	tolerance time.Duration

	//テストで時刻を固定するため
	now func() time.Time
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{
		secret:    []byte(secret),
		tolerance: 5 * time.Minute,
		now:       time.Now,
	}
}

func (v *SignatureVerifier) Verify(payload []byte, header string) error {
	if strings.TrimSpace(header) == "" {
		return ErrInvalidSignature
	}

	var timestamp int64
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return ErrInvalidSignature
	}

	//リプレイ対策。古すぎるイベントは受けない
	age := v.now().Sub(time.Unix(timestamp, 0))
	if age > v.tolerance || age < -v.tolerance {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}

	return ErrInvalidSignature
}
