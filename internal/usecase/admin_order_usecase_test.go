package usecase_test

import (
	"context"
	"testing"

	"shoplite/internal/domain/model"
	repo "shoplite/internal/repository"
	"shoplite/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Repository mocks (AdminOrder向け：衝突回避)
// =====================

type AdminOrderRepoMock struct{ mock.Mock }

func (m *AdminOrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *AdminOrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	panic("not used in AdminOrderUsecase tests")
}

func (m *AdminOrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	panic("not used in AdminOrderUsecase tests")
}

func (m *AdminOrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *AdminOrderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	panic("not used in AdminOrderUsecase tests")
}

func (m *AdminOrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type AdminOrderItemRepoMock struct{ mock.Mock }

func (m *AdminOrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	panic("not used in AdminOrderUsecase tests")
}

func (m *AdminOrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type AdminInventoryRepoMock struct{ mock.Mock }

func (m *AdminInventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	panic("not used in AdminOrderUsecase tests")
}

func (m *AdminInventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	panic("not used in AdminOrderUsecase tests")
}

func (m *AdminInventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *AdminInventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	panic("not used in AdminOrderUsecase tests")
}

type AdminAuditRepoMock struct{ mock.Mock }

func (m *AdminAuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AdminAuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	panic("not used in AdminOrderUsecase tests")
}

type adminOrderFixture struct {
	tx     *CheckoutTxManagerMock
	orders *AdminOrderRepoMock
	items  *AdminOrderItemRepoMock
	inv    *AdminInventoryRepoMock
	audit  *AdminAuditRepoMock
	uc     *usecase.AdminOrderUsecase
}

func newAdminOrderFixture() *adminOrderFixture {
	f := &adminOrderFixture{
		tx:     new(CheckoutTxManagerMock),
		orders: new(AdminOrderRepoMock),
		items:  new(AdminOrderItemRepoMock),
		inv:    new(AdminInventoryRepoMock),
		audit:  new(AdminAuditRepoMock),
	}
	f.tx.Repos = &CheckoutTxReposMock{
		orders:     f.orders,
		orderItems: f.items,
		inventory:  f.inv,
		auditLogs:  f.audit,
	}
	f.uc = usecase.NewAdminOrderUsecase(f.tx)
	return f
}

// =====================
// ListOrders
// =====================

func TestAdminOrderUsecase_List_InvalidPage(t *testing.T) {
	f := newAdminOrderFixture()

	_, err := f.uc.ListOrders(context.Background(), 1, usecase.AdminListOrdersInput{Page: 0, Limit: 20})
	assertErrContains(t, err, "invalid page")
}

func TestAdminOrderUsecase_List_InvalidStatus(t *testing.T) {
	f := newAdminOrderFixture()

	_, err := f.uc.ListOrders(context.Background(), 1, usecase.AdminListOrdersInput{Page: 1, Limit: 20, Status: "XXX"})
	assertErrContains(t, err, "invalid status")
}

func TestAdminOrderUsecase_List_InvalidFrom(t *testing.T) {
	f := newAdminOrderFixture()

	_, err := f.uc.ListOrders(context.Background(), 1, usecase.AdminListOrdersInput{Page: 1, Limit: 20, From: "yesterday"})
	assertErrContains(t, err, "invalid from")
}

func TestAdminOrderUsecase_List_Success(t *testing.T) {
	f := newAdminOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("ListAdmin", mock.Anything, mock.MatchedBy(func(q repo.AdminOrderListFilter) bool {
		return q.Page == 1 && q.Limit == 20 && q.Status == "PAID"
	})).Return([]model.Order{
		{ID: 10, Status: model.OrderStatusPaid},
		{ID: 11, Status: model.OrderStatusPaid},
	}, int64(2), nil)

	out, err := f.uc.ListOrders(context.Background(), 1, usecase.AdminListOrdersInput{Page: 1, Limit: 20, Status: "PAID"})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(out.Items))
	assert.Equal(t, int64(2), out.Total)

	f.orders.AssertExpectations(t)
}

// =====================
// UpdateOrderStatus
// =====================

func TestAdminOrderUsecase_UpdateStatus_InvalidStatus(t *testing.T) {
	f := newAdminOrderFixture()

	err := f.uc.UpdateOrderStatus(context.Background(), 1, 10, "XXX")
	assertErrContains(t, err, "invalid status")
}

func TestAdminOrderUsecase_UpdateStatus_NotFound(t *testing.T) {
	f := newAdminOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound)

	err := f.uc.UpdateOrderStatus(context.Background(), 1, 99, model.OrderStatusPaid)
	assertErrContains(t, err, "not found")
}

func TestAdminOrderUsecase_UpdateStatus_TerminalGuard(t *testing.T) {
	f := newAdminOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{ID: 10, Status: model.OrderStatusShipped}, nil)

	//発送済みからは動かせない
	err := f.uc.UpdateOrderStatus(context.Background(), 1, 10, model.OrderStatusCanceled)
	assertErrContains(t, err, "terminal")

	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_SameStatusConflict(t *testing.T) {
	f := newAdminOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{ID: 10, Status: model.OrderStatusPaid}, nil)

	err := f.uc.UpdateOrderStatus(context.Background(), 1, 10, model.OrderStatusPaid)
	assertErrContains(t, err, "status unchanged")
}

func TestAdminOrderUsecase_UpdateStatus_ToShipped(t *testing.T) {
	f := newAdminOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{ID: 10, Status: model.OrderStatusPaid}, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(10), model.OrderStatusShipped).Return(nil)
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateOrderStatus &&
			l.ResourceType == model.AuditResourceOrder &&
			l.ResourceID == 10 &&
			l.BeforeJSON == `{"status":"PAID"}` &&
			l.AfterJSON == `{"status":"SHIPPED"}`
	})).Return(nil)

	err := f.uc.UpdateOrderStatus(context.Background(), 1, 10, model.OrderStatusShipped)
	assert.NoError(t, err)

	//発送では在庫は動かない
	f.inv.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
	f.audit.AssertExpectations(t)
}

func TestAdminOrderUsecase_UpdateStatus_CancelRestocks(t *testing.T) {
	f := newAdminOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{ID: 10, Status: model.OrderStatusPending}, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(10), model.OrderStatusCanceled).Return(nil)
	f.items.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{
		{OrderID: 10, ProductID: 1, Quantity: 2},
		{OrderID: 10, ProductID: 2, Quantity: 1},
	}, nil)

	//キャンセルは明細分の在庫を戻す
	f.inv.On("IncreaseStock", mock.Anything, int64(1), int64(2)).Return(nil)
	f.inv.On("IncreaseStock", mock.Anything, int64(2), int64(1)).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := f.uc.UpdateOrderStatus(context.Background(), 1, 10, model.OrderStatusCanceled)
	assert.NoError(t, err)

	f.inv.AssertExpectations(t)
}
