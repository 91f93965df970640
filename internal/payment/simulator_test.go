package payment_test

import (
	"context"
	"testing"

	"shoplite/internal/payment"

	"github.com/stretchr/testify/assert"
)

func TestSimulator_CreateIntent(t *testing.T) {
	sim := payment.NewSimulator()

	in, err := sim.CreateIntent(context.Background(), 4950, "usd")
	assert.NoError(t, err)
	assert.NotEmpty(t, in.ID)
	assert.NotEmpty(t, in.ClientSecret)
	assert.Equal(t, int64(4950), in.Amount)
	assert.Equal(t, "usd", in.Currency)
	assert.Equal(t, payment.IntentStatusRequiresConfirmation, in.Status)
}

func TestSimulator_CreateIntent_UniqueIDs(t *testing.T) {
	sim := payment.NewSimulator()

	a, _ := sim.CreateIntent(context.Background(), 100, "usd")
	b, _ := sim.CreateIntent(context.Background(), 100, "usd")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSimulator_RetrieveIntent_Succeeds(t *testing.T) {
	sim := payment.NewSimulator()

	created, _ := sim.CreateIntent(context.Background(), 100, "usd")
	got, err := sim.RetrieveIntent(context.Background(), created.ID)

	assert.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, payment.IntentStatusSucceeded, got.Status)
}

func TestSimulator_RetrieveIntent_Unknown(t *testing.T) {
	sim := payment.NewSimulator()

	_, err := sim.RetrieveIntent(context.Background(), "pi_nope")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no such intent")
}
