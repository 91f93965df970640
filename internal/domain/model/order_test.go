package model_test

import (
	"sync"
	"testing"

	"shoplite/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/schema"
)

// =====================
// Order schema
// =====================

// 冪等キーはユーザー単位で一意。
// グローバルに一意にすると、別ユーザーが同じキーを再利用したときに
// 冪等ヒットせずunique違反で落ちてしまう。
func TestOrder_IdempotencyKeyUniquePerUser(t *testing.T) {
	s, err := schema.Parse(&model.Order{}, &sync.Map{}, schema.NamingStrategy{})
	assert.NoError(t, err)

	var idx *schema.Index
	for _, i := range s.ParseIndexes() {
		if i.Name == "idx_orders_user_idem" {
			idx = i
			break
		}
	}
	if !assert.NotNil(t, idx, "composite index idx_orders_user_idem not found") {
		return
	}

	assert.Equal(t, "UNIQUE", idx.Class)
	if assert.Equal(t, 2, len(idx.Fields)) {
		assert.Equal(t, "user_id", idx.Fields[0].DBName)
		assert.Equal(t, "idempotency_key", idx.Fields[1].DBName)
	}
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, model.PaymentMethodCredit.Valid())
	assert.True(t, model.PaymentMethodPayPal.Valid())
	assert.True(t, model.PaymentMethodBank.Valid())
	assert.False(t, model.PaymentMethod("bitcoin").Valid())
}
