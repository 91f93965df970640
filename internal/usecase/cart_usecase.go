package usecase

import (
	"context"
	"net/http"

	"shoplite/internal/domain/cart"
	repo "shoplite/internal/repository"
	"shoplite/internal/session"
)

type CartUsecase struct {
	sessions       *session.Store
	productRepo    repo.ProductRepository
	taxRatePercent int64
}

// DI
func NewCartUsecase(sessions *session.Store, productRepo repo.ProductRepository, taxRatePercent int64) *CartUsecase {
	return &CartUsecase{
		sessions:       sessions,
		productRepo:    productRepo,
		taxRatePercent: taxRatePercent,
	}
}

// カートの表示用スナップショット（明細＋派生合計＋決済状態）。
type CartOutput struct {
	Items          []cart.LineItem    `json:"items"`
	TotalItems     int64              `json:"total_items"`
	Subtotal       int64              `json:"subtotal"`
	Tax            int64              `json:"tax"`
	GrandTotal     int64              `json:"grand_total"`
	PaymentStatus  cart.PaymentStatus `json:"payment_status"`
	PaymentError   string             `json:"payment_error,omitempty"`
	PaymentRef     string             `json:"payment_reference,omitempty"`
	SubmitInFlight bool               `json:"submit_in_flight"`
}

// セッションのロック内で呼ぶこと。
func (u *CartUsecase) buildOutput(s *session.Session) CartOutput {
	items := s.Cart.Items()
	subtotal := s.Cart.TotalAmount()
	return CartOutput{
		Items:         items,
		TotalItems:    s.Cart.TotalItems(),
		Subtotal:      subtotal,
		Tax:           cart.Tax(subtotal, u.taxRatePercent),
		GrandTotal:    cart.GrandTotal(subtotal, u.taxRatePercent),
		PaymentStatus: s.Payment.Status(),
		PaymentError:  s.Payment.ErrorMessage(),
		PaymentRef:    s.Payment.Reference(),
	}
}

func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	s := u.sessions.Get(userID)
	var out CartOutput
	s.WithLock(func() {
		out = u.buildOutput(s)
	})
	return out, nil
}

type AddToCartInput struct {
	ProductID int64
	Quantity  int64
}

// AddToCart は商品をカートに追加する。
// 価格・名前は追加時点のスナップショットを取り、以後の商品変更は反映しない。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddToCartInput) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Quantity <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be >= 1")
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	s := u.sessions.Get(userID)
	var out CartOutput
	var stockErr error
	s.WithLock(func() {
		//在庫チェック（既存行との合算で上限を超えないこと）
		var current int64
		for _, it := range s.Cart.Items() {
			if it.ProductID == in.ProductID {
				current = it.Quantity
			}
		}
		if current+in.Quantity > p.Stock {
			stockErr = NewHTTPError(http.StatusConflict, "insufficient stock")
			return
		}

		s.Cart.AddItem(cart.ProductSnapshot{
			ID:       p.ID,
			Name:     p.Name,
			ImageURL: p.ImageURL,
			Price:    p.Price,
		}, in.Quantity)
		out = u.buildOutput(s)
	})
	if stockErr != nil {
		return CartOutput{}, stockErr
	}
	return out, nil
}

type UpdateCartItemInput struct {
	ProductID int64
	Quantity  int64
}

// UpdateCartItem は数量を上書きする。0以下は行削除。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, in UpdateCartItemInput) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	s := u.sessions.Get(userID)
	var out CartOutput
	s.WithLock(func() {
		s.Cart.SetItemQuantity(in.ProductID, in.Quantity)
		out = u.buildOutput(s)
	})
	return out, nil
}

func (u *CartUsecase) RemoveCartItem(ctx context.Context, userID int64, productID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	s := u.sessions.Get(userID)
	var out CartOutput
	s.WithLock(func() {
		s.Cart.RemoveItem(productID)
		out = u.buildOutput(s)
	})
	return out, nil
}

func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	s := u.sessions.Get(userID)
	var out CartOutput
	s.WithLock(func() {
		s.Cart.Clear()
		out = u.buildOutput(s)
	})
	return out, nil
}
