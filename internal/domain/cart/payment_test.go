package cart_test

import (
	"testing"

	"shoplite/internal/domain/cart"

	"github.com/stretchr/testify/assert"
)

// =====================
// 正常系ライフサイクル
// =====================

func TestPaymentTracker_InitialStateIsIdle(t *testing.T) {
	tr := cart.NewPaymentTracker()

	assert.Equal(t, cart.PaymentStatusIdle, tr.Status())
	assert.Equal(t, "", tr.Reference())
	assert.Equal(t, "", tr.ErrorMessage())
}

func TestPaymentTracker_StartProcessingThenConfirm(t *testing.T) {
	tr := cart.NewPaymentTracker()

	gen := tr.StartProcessing()
	assert.Equal(t, cart.PaymentStatusProcessing, tr.Status())

	applied := tr.Confirm(gen, "pi_123")
	assert.True(t, applied)
	assert.Equal(t, cart.PaymentStatusSucceeded, tr.Status())
	assert.Equal(t, "pi_123", tr.Reference())
	assert.Equal(t, "", tr.ErrorMessage())
}

func TestPaymentTracker_StartProcessingThenFail(t *testing.T) {
	tr := cart.NewPaymentTracker()

	gen := tr.StartProcessing()
	applied := tr.Fail(gen, "card declined")

	assert.True(t, applied)
	assert.Equal(t, cart.PaymentStatusFailed, tr.Status())
	//エラーメッセージはそのまま保持される
	assert.Equal(t, "card declined", tr.ErrorMessage())
	assert.Equal(t, "", tr.Reference())
}

func TestPaymentTracker_ResetReturnsToIdle(t *testing.T) {
	tr := cart.NewPaymentTracker()

	gen := tr.StartProcessing()
	tr.Fail(gen, "card declined")
	tr.Reset()

	assert.Equal(t, cart.PaymentStatusIdle, tr.Status())
	assert.Equal(t, "", tr.ErrorMessage())
	assert.Equal(t, "", tr.Reference())
}

// =====================
// 古いコールバックの無効化
// =====================

func TestPaymentTracker_StaleConfirmAfterResetIsNoOp(t *testing.T) {
	tr := cart.NewPaymentTracker()

	gen := tr.StartProcessing()
	tr.Reset()

	//Reset前の試行のコールバックが遅れて届いても状態は変わらない
	applied := tr.Confirm(gen, "pi_stale")
	assert.False(t, applied)
	assert.Equal(t, cart.PaymentStatusIdle, tr.Status())
	assert.Equal(t, "", tr.Reference())
}

func TestPaymentTracker_StaleFailAfterRetryIsNoOp(t *testing.T) {
	tr := cart.NewPaymentTracker()

	gen1 := tr.StartProcessing()
	tr.Fail(gen1, "timeout")
	tr.Reset()

	//新しい試行を開始
	gen2 := tr.StartProcessing()
	assert.NotEqual(t, gen1, gen2)

	//旧試行の失敗が遅れて届いても無視される
	applied := tr.Fail(gen1, "stale timeout")
	assert.False(t, applied)
	assert.Equal(t, cart.PaymentStatusProcessing, tr.Status())

	//現行試行のコールバックは通る
	assert.True(t, tr.Confirm(gen2, "pi_new"))
	assert.Equal(t, cart.PaymentStatusSucceeded, tr.Status())
}

func TestPaymentTracker_ConfirmWhileIdleIsNoOp(t *testing.T) {
	tr := cart.NewPaymentTracker()

	applied := tr.Confirm(0, "pi_x")
	assert.False(t, applied)
	assert.Equal(t, cart.PaymentStatusIdle, tr.Status())
}

func TestPaymentTracker_ConfirmAfterSucceededIsNoOp(t *testing.T) {
	tr := cart.NewPaymentTracker()

	gen := tr.StartProcessing()
	tr.Confirm(gen, "pi_1")

	//二重confirmは適用されない
	applied := tr.Confirm(gen, "pi_2")
	assert.False(t, applied)
	assert.Equal(t, "pi_1", tr.Reference())
}

func TestPaymentTracker_StartProcessingWhileProcessingKeepsGeneration(t *testing.T) {
	tr := cart.NewPaymentTracker()

	gen1 := tr.StartProcessing()
	gen2 := tr.StartProcessing()

	//Processing中の再開始は新しい試行を作らない
	assert.Equal(t, gen1, gen2)
}

func TestPaymentTracker_StartProcessingClearsPreviousError(t *testing.T) {
	tr := cart.NewPaymentTracker()

	gen := tr.StartProcessing()
	tr.Fail(gen, "card declined")

	tr.StartProcessing()
	assert.Equal(t, cart.PaymentStatusProcessing, tr.Status())
	assert.Equal(t, "", tr.ErrorMessage())
}
