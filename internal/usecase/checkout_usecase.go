package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"shoplite/internal/domain/cart"
	"shoplite/internal/domain/model"
	"shoplite/internal/payment"
	repo "shoplite/internal/repository"
	"shoplite/internal/session"
)

// 注文番号の採番（テストで差し替える）
type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// CheckoutUsecase はカート→注文の確定フローを司る。
//   - カード以外は即時確定（プロバイダを経由しない）
//   - カードはintent作成→フロントで確認→Confirmで確定の2段階
//   - 在庫減算と注文作成は1トランザクション
//   - 成功時だけカートを空にし、決済トラッカーをIdleへ戻す
type CheckoutUsecase struct {
	sessions       *session.Store
	txManager      repo.TransactionManager
	provider       payment.Provider
	idGen          IDGenerator
	taxRatePercent int64
	currency       string
}

// DI
func NewCheckoutUsecase(
	sessions *session.Store,
	txManager repo.TransactionManager,
	provider payment.Provider,
	idGen IDGenerator,
	taxRatePercent int64,
	currency string,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		sessions:       sessions,
		txManager:      txManager,
		provider:       provider,
		idGen:          idGen,
		taxRatePercent: taxRatePercent,
		currency:       currency,
	}
}

type SubmitOrderInput struct {
	PaymentMethod   model.PaymentMethod
	ShippingAddress string
	IdempotencyKey  string
}

type SubmitOrderOutput struct {
	//カード決済でプロバイダ確認待ちのときtrue
	RequiresPayment bool   `json:"requires_payment"`
	ClientSecret    string `json:"client_secret,omitempty"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
	Generation      uint64 `json:"generation,omitempty"`

	OrderID     int64  `json:"order_id,omitempty"`
	OrderNumber string `json:"order_number,omitempty"`
	TotalPrice  int64  `json:"total_price,omitempty"`
}

// SubmitOrder は注文送信のエントリポイント。
func (u *CheckoutUsecase) SubmitOrder(ctx context.Context, userID int64, in SubmitOrderInput) (SubmitOrderOutput, error) {
	if userID <= 0 {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !in.PaymentMethod.Valid() {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment method")
	}
	if strings.TrimSpace(in.ShippingAddress) == "" {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusBadRequest, "shipping address required")
	}
	if strings.TrimSpace(in.IdempotencyKey) == "" {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusBadRequest, "idempotency key required")
	}

	s := u.sessions.Get(userID)

	//二重送信防止ラッチ
	if !s.BeginSubmit() {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusConflict, "order submission already in flight")
	}
	defer s.EndSubmit()

	var (
		empty      bool
		grandTotal int64
		payStatus  cart.PaymentStatus
		payRef     string
	)
	s.WithLock(func() {
		empty = s.Cart.IsEmpty()
		grandTotal = cart.GrandTotal(s.Cart.TotalAmount(), u.taxRatePercent)
		payStatus = s.Payment.Status()
		payRef = s.Payment.Reference()
	})
	if empty {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	if in.PaymentMethod == model.PaymentMethodCredit {
		//既に確認済みならそのまま確定へ
		if payStatus == cart.PaymentStatusSucceeded && payRef != "" {
			return u.placeOrder(ctx, s, userID, in, payRef)
		}

		var gen uint64
		s.WithLock(func() {
			gen = s.Payment.StartProcessing()
		})

		intent, err := u.provider.CreateIntent(ctx, grandTotal, u.currency)
		if err != nil {
			//プロバイダのメッセージはそのまま返す
			s.WithLock(func() {
				s.Payment.Fail(gen, err.Error())
			})
			return SubmitOrderOutput{}, NewHTTPError(http.StatusBadGateway, err.Error())
		}

		return SubmitOrderOutput{
			RequiresPayment: true,
			ClientSecret:    intent.ClientSecret,
			PaymentIntentID: intent.ID,
			Generation:      gen,
		}, nil
	}

	//paypal / bank は即時確定
	return u.placeOrder(ctx, s, userID, in, "")
}

type ConfirmPaymentInput struct {
	Generation      uint64
	PaymentIntentID string
	ShippingAddress string
	IdempotencyKey  string
}

// ConfirmPayment はカード決済の成功コールバック。
// プロバイダでintentの状態と金額を検証してから注文を確定する。
// カートの現在合計とintentの金額が一致しないときは確定せず409を返す。
// generationが古い（Reset済み・リトライ済み）場合は状態を変えず409を返す。
func (u *CheckoutUsecase) ConfirmPayment(ctx context.Context, userID int64, in ConfirmPaymentInput) (SubmitOrderOutput, error) {
	if userID <= 0 {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.PaymentIntentID) == "" {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusBadRequest, "payment intent id required")
	}
	if strings.TrimSpace(in.ShippingAddress) == "" {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusBadRequest, "shipping address required")
	}
	if strings.TrimSpace(in.IdempotencyKey) == "" {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusBadRequest, "idempotency key required")
	}

	s := u.sessions.Get(userID)
	if !s.BeginSubmit() {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusConflict, "order submission already in flight")
	}
	defer s.EndSubmit()

	intent, err := u.provider.RetrieveIntent(ctx, in.PaymentIntentID)
	if err != nil {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusBadGateway, err.Error())
	}
	if intent.Status != payment.IntentStatusSucceeded {
		s.WithLock(func() {
			s.Payment.Fail(in.Generation, "payment not completed")
		})
		return SubmitOrderOutput{}, NewHTTPError(http.StatusPaymentRequired, "payment not completed")
	}

	var applied, amountMismatch bool
	s.WithLock(func() {
		//intent作成後にカートが変わっていたら確定しない（請求額と注文額がずれる）
		if cart.GrandTotal(s.Cart.TotalAmount(), u.taxRatePercent) != intent.Amount {
			amountMismatch = true
			s.Payment.Fail(in.Generation, "payment amount mismatch")
			return
		}
		applied = s.Payment.Confirm(in.Generation, intent.ID)
	})
	if amountMismatch {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusConflict, "payment amount mismatch")
	}
	if !applied {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusConflict, "stale payment confirmation")
	}

	return u.placeOrder(ctx, s, userID, SubmitOrderInput{
		PaymentMethod:   model.PaymentMethodCredit,
		ShippingAddress: in.ShippingAddress,
		IdempotencyKey:  in.IdempotencyKey,
	}, intent.ID)
}

type FailPaymentInput struct {
	Generation uint64
	Message    string
}

type PaymentStateOutput struct {
	Applied      bool               `json:"applied"`
	Status       cart.PaymentStatus `json:"status"`
	ErrorMessage string             `json:"error_message,omitempty"`
}

// FailPayment は失敗コールバック。古いgenerationは無視される。
func (u *CheckoutUsecase) FailPayment(ctx context.Context, userID int64, in FailPaymentInput) (PaymentStateOutput, error) {
	if userID <= 0 {
		return PaymentStateOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Message) == "" {
		in.Message = "payment failed"
	}

	s := u.sessions.Get(userID)
	var out PaymentStateOutput
	s.WithLock(func() {
		out.Applied = s.Payment.Fail(in.Generation, in.Message)
		out.Status = s.Payment.Status()
		out.ErrorMessage = s.Payment.ErrorMessage()
	})
	return out, nil
}

// ResetPayment はチェックアウト画面への再入場時などに呼ぶ。
// 以後、進行中だった試行のコールバックは全て無効になる。
func (u *CheckoutUsecase) ResetPayment(ctx context.Context, userID int64) (PaymentStateOutput, error) {
	if userID <= 0 {
		return PaymentStateOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	s := u.sessions.Get(userID)
	var out PaymentStateOutput
	s.WithLock(func() {
		s.Payment.Reset()
		out.Status = s.Payment.Status()
	})
	return out, nil
}

// placeOrder は在庫減算と注文作成を1トランザクションで行い、
// 成功したときだけカートと決済状態をリセットする。
// 失敗時はセッション状態に手を付けない（再送で再試行できる）。
func (u *CheckoutUsecase) placeOrder(ctx context.Context, s *session.Session, userID int64, in SubmitOrderInput, paymentRef string) (SubmitOrderOutput, error) {
	var items []cart.LineItem
	var grandTotal int64
	s.WithLock(func() {
		items = s.Cart.Items()
		grandTotal = cart.GrandTotal(s.Cart.TotalAmount(), u.taxRatePercent)
	})
	if len(items) == 0 {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	status := model.OrderStatusPending
	if in.PaymentMethod == model.PaymentMethodCredit && paymentRef != "" {
		status = model.OrderStatusPaid
	}

	var placed model.Order
	err := u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		//同じキーの注文が既にあればそれを返す（再送対策）
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, in.IdempotencyKey)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			placed = existing
			return nil
		}

		//在庫チェック＋減算
		for _, it := range items {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, "insufficient stock: "+it.Name)
			}
		}

		orderID, err := r.Orders().Create(ctx, model.Order{
			OrderNumber:      u.idGen.NewID(),
			UserID:           userID,
			Status:           status,
			TotalPrice:       grandTotal,
			PaymentMethod:    in.PaymentMethod,
			PaymentReference: paymentRef,
			ShippingAddress:  strings.TrimSpace(in.ShippingAddress),
			IdempotencyKey:   strings.TrimSpace(in.IdempotencyKey),
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderItems := make([]model.OrderItem, 0, len(items))
		for _, it := range items {
			orderItems = append(orderItems, model.OrderItem{
				OrderID:             orderID,
				ProductID:           it.ProductID,
				ProductNameSnapshot: it.Name,
				UnitPriceSnapshot:   it.UnitPrice,
				Quantity:            it.Quantity,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		placed = o
		return nil
	})
	if err != nil {
		return SubmitOrderOutput{}, err
	}

	//確定後にカートを空にし、決済状態をIdleへ戻す
	s.WithLock(func() {
		s.Cart.Clear()
		s.Payment.Reset()
	})

	return SubmitOrderOutput{
		OrderID:     placed.ID,
		OrderNumber: placed.OrderNumber,
		TotalPrice:  placed.TotalPrice,
	}, nil
}
