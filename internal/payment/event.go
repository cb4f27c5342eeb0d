package payment

import "encoding/json"

// 状態遷移を起こすイベント種別の許可リスト。
// ここに無い種別は正常応答のno-opとして扱う（プロバイダの再送を止めるため）。
const (
	EventCheckoutSessionCompleted     = "checkout.session.completed"
	EventCheckoutSessionExpired       = "checkout.session.expired"
	EventCheckoutSessionPaymentFailed = "checkout.session.async_payment_failed"
)

// プロバイダのwebhookイベント。data.objectはチェックアウトセッション。
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			//セッションID（注文との照合キー）
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

func ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
