package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shoplite/internal/domain/model"
	repo "shoplite/internal/repository"
)

type AdminOrderUsecase struct {
	txManager repo.TransactionManager
}

// DI
func NewAdminOrderUsecase(txManager repo.TransactionManager) *AdminOrderUsecase {
	return &AdminOrderUsecase{txManager: txManager}
}

type AdminListOrdersInput struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   string
	To     string
}

func (u *AdminOrderUsecase) ListOrders(ctx context.Context, adminUserID int64, in AdminListOrdersInput) (OrderListOutput, error) {
	if adminUserID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	switch model.OrderStatus(in.Status) {
	case "", model.OrderStatusPending, model.OrderStatusPaid, model.OrderStatusShipped, model.OrderStatusCanceled:
	default:
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	from, err := parseDateTimeRFC3339(in.From)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid from")
	}
	to, err := parseDateTimeRFC3339(in.To)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid to")
	}

	f := repo.AdminOrderListFilter{
		Page:   in.Page,
		Limit:  in.Limit,
		Status: in.Status,
		UserID: in.UserID,
		From:   from,
		To:     to,
	}

	var orders []model.Order
	var total int64
	err = u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		orders, total, err = r.Orders().ListAdmin(ctx, f)
		return err
	})
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := OrderListOutput{
		Items: make([]OrderOutput, 0, len(orders)),
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}
	for _, o := range orders {
		out.Items = append(out.Items, toOrderOutput(o, nil))
	}
	return out, nil
}

// UpdateOrderStatus は注文ステータスを更新する。
// SHIPPED / CANCELED は終端なので以後の変更を拒否する。
// CANCELED への変更時は明細分の在庫を戻し、監査ログを残す。
func (u *AdminOrderUsecase) UpdateOrderStatus(ctx context.Context, adminUserID int64, orderID int64, newStatus model.OrderStatus) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	switch newStatus {
	case model.OrderStatusPending, model.OrderStatusPaid, model.OrderStatusShipped, model.OrderStatusCanceled:
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//終端ステータスからは動かさない
		if o.Status == model.OrderStatusShipped || o.Status == model.OrderStatusCanceled {
			return NewHTTPError(http.StatusConflict, "order status is terminal")
		}
		if o.Status == newStatus {
			return NewHTTPError(http.StatusConflict, "status unchanged")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//キャンセル時は在庫を戻す
		if newStatus == model.OrderStatusCanceled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			for _, it := range items {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}

		//★監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON := fmt.Sprintf(`{"status":%q}`, o.Status)
		afterJSON := fmt.Sprintf(`{"status":%q}`, newStatus)
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}

func parseDateTimeRFC3339(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
