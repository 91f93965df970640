package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPProvider はRESTの決済プロバイダを呼ぶ実装。
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPProvider(baseURL string, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type createIntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type providerError struct {
	Error string `json:"error"`
}

func (p *HTTPProvider) CreateIntent(ctx context.Context, amount int64, currency string) (Intent, error) {
	body, err := json.Marshal(createIntentRequest{Amount: amount, Currency: currency})
	if err != nil {
		return Intent{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/payment_intents", bytes.NewReader(body))
	if err != nil {
		return Intent{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	return p.do(req)
}

func (p *HTTPProvider) RetrieveIntent(ctx context.Context, intentID string) (Intent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/payment_intents/"+intentID, nil)
	if err != nil {
		return Intent{}, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	return p.do(req)
}

func (p *HTTPProvider) do(req *http.Request) (Intent, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return Intent{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Intent{}, err
	}

	//プロバイダのエラーメッセージはそのまま伝える
	if resp.StatusCode >= 400 {
		var pe providerError
		if err := json.Unmarshal(raw, &pe); err == nil && pe.Error != "" {
			return Intent{}, fmt.Errorf("payment provider: %s", pe.Error)
		}
		return Intent{}, fmt.Errorf("payment provider: status %d", resp.StatusCode)
	}

	var in Intent
	if err := json.Unmarshal(raw, &in); err != nil {
		return Intent{}, err
	}
	return in, nil
}
