package payment

import "context"

// Intent は決済プロバイダ側の決済1件。
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

const (
	IntentStatusRequiresConfirmation = "requires_confirmation"
	IntentStatusSucceeded            = "succeeded"
	IntentStatusFailed               = "failed"
)

// Provider は外部決済プロバイダとの約束。
// 金額はセント単位で渡す。
type Provider interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (Intent, error)
}
