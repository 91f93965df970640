package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"shoplite/internal/payment"

	"github.com/stretchr/testify/assert"
)

func TestHTTPProvider_CreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		var body struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, int64(4950), body.Amount)
		assert.Equal(t, "usd", body.Currency)

		_ = json.NewEncoder(w).Encode(payment.Intent{
			ID:           "pi_1",
			ClientSecret: "pi_1_secret",
			Amount:       body.Amount,
			Currency:     body.Currency,
			Status:       payment.IntentStatusRequiresConfirmation,
		})
	}))
	defer srv.Close()

	p := payment.NewHTTPProvider(srv.URL, "sk_test")

	in, err := p.CreateIntent(context.Background(), 4950, "usd")
	assert.NoError(t, err)
	assert.Equal(t, "pi_1", in.ID)
	assert.Equal(t, "pi_1_secret", in.ClientSecret)
}

func TestHTTPProvider_RetrieveIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/payment_intents/pi_1", r.URL.Path)

		_ = json.NewEncoder(w).Encode(payment.Intent{
			ID:     "pi_1",
			Status: payment.IntentStatusSucceeded,
		})
	}))
	defer srv.Close()

	p := payment.NewHTTPProvider(srv.URL, "sk_test")

	in, err := p.RetrieveIntent(context.Background(), "pi_1")
	assert.NoError(t, err)
	assert.Equal(t, payment.IntentStatusSucceeded, in.Status)
}

func TestHTTPProvider_ErrorMessagePassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "card declined"})
	}))
	defer srv.Close()

	p := payment.NewHTTPProvider(srv.URL, "sk_test")

	_, err := p.CreateIntent(context.Background(), 100, "usd")
	//プロバイダのメッセージを言い換えない
	assert.EqualError(t, err, "payment provider: card declined")
}

func TestHTTPProvider_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	p := payment.NewHTTPProvider(srv.URL, "sk_test")

	_, err := p.CreateIntent(context.Background(), 100, "usd")
	assert.EqualError(t, err, "payment provider: status 502")
}
