package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"app/internal/config"
)

// チェックアウトセッション作成の窓口。
// usecase側はこのinterfaceだけを見る（テストではモックする）。
type CheckoutClient interface {
	CreateCheckoutSession(ctx context.Context, in CreateSessionInput) (*CheckoutSession, error)
}

// セッション作成に渡す明細（スナップショット済みの値）
type SessionLineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

type CreateSessionInput struct {
	//注文との照合用（metadataとclient_reference_idに入る）
	OrderNumber string
	Currency    string
	Items       []SessionLineItem
}

// プロバイダが返すセッションハンドル
type CheckoutSession struct {
	ID  string
	URL string
}

type stripeClientImpl struct {
	httpClient *http.Client
	baseAPIURL string
	secretKey  string
	successURL string
	cancelURL  string
}

func NewStripeClient(cfg config.Stripe) CheckoutClient {
	return &stripeClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseAPIURL: strings.TrimRight(cfg.BaseAPIURL, "/"),
		secretKey:  cfg.SecretKey,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

// Stripeのチェックアウトセッションを作成してIDとリダイレクトURLを返す。
// Stripe APIはform-encodedで受ける。
func (c *stripeClientImpl) CreateCheckoutSession(ctx context.Context, in CreateSessionInput) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", in.OrderNumber)
	form.Set("metadata[order_number]", in.OrderNumber)
	form.Set("success_url", c.successURL)
	form.Set("cancel_url", c.cancelURL)

	for i, item := range in.Items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", in.Currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmount, 10))
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		form.Set(prefix+"[quantity]", strconv.FormatInt(item.Quantity, 10))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseAPIURL+"/v1/checkout/sessions",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stripe error %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode stripe response: %w", err)
	}

	return &CheckoutSession{
		ID:  result.ID,
		URL: result.URL,
	}, nil
}
