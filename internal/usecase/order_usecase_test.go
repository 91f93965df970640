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
// Repository mocks (Order向け：衝突回避)
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	panic("not used in OrderUsecase tests")
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

// =====================
// ListMyOrders
// =====================

func TestOrderUsecase_ListMyOrders_InvalidPage(t *testing.T) {
	uc := usecase.NewOrderUsecase(new(OrderRepoMock), new(OrderItemRepoMock))

	_, err := uc.ListMyOrders(context.Background(), 1, 0, 20)
	assertErrContains(t, err, "invalid page")
}

func TestOrderUsecase_ListMyOrders_Success(t *testing.T) {
	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)
	uc := usecase.NewOrderUsecase(orders, items)

	orders.On("ListByUserID", mock.Anything, int64(1), 1, 20).Return([]model.Order{
		{ID: 10, OrderNumber: "n-10", Status: model.OrderStatusPaid, TotalPrice: 4290},
		{ID: 11, OrderNumber: "n-11", Status: model.OrderStatusPending, TotalPrice: 1100},
	}, int64(2), nil)

	out, err := uc.ListMyOrders(context.Background(), 1, 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.Total)
	assert.Equal(t, 2, len(out.Items))
	//一覧は明細なし
	assert.Equal(t, 0, len(out.Items[0].Items))

	orders.AssertExpectations(t)
}

// =====================
// GetMyOrderDetail
// =====================

func TestOrderUsecase_Detail_OtherUsersOrderHidden(t *testing.T) {
	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)
	uc := usecase.NewOrderUsecase(orders, items)

	orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{ID: 10, UserID: 2}, nil)

	//他人の注文は存在も明かさず404
	_, err := uc.GetMyOrderDetail(context.Background(), 1, 10)
	assertErrContains(t, err, "not found")

	items.AssertNotCalled(t, "ListByOrderID", mock.Anything, mock.Anything)
}

func TestOrderUsecase_Detail_NotFound(t *testing.T) {
	orders := new(OrderRepoMock)
	uc := usecase.NewOrderUsecase(orders, new(OrderItemRepoMock))

	orders.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.GetMyOrderDetail(context.Background(), 1, 99)
	assertErrContains(t, err, "not found")
}

func TestOrderUsecase_Detail_IncludesSnapshotItems(t *testing.T) {
	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)
	uc := usecase.NewOrderUsecase(orders, items)

	orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{
		ID: 10, UserID: 1, OrderNumber: "n-10", Status: model.OrderStatusPaid,
		TotalPrice: 4290, PaymentMethod: model.PaymentMethodCredit, PaymentReference: "pi_1",
	}, nil)
	items.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{
		{OrderID: 10, ProductID: 1, ProductNameSnapshot: "mug", UnitPriceSnapshot: 1500, Quantity: 2},
	}, nil)

	out, err := uc.GetMyOrderDetail(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, "n-10", out.OrderNumber)
	assert.Equal(t, "pi_1", out.PaymentReference)
	assert.Equal(t, 1, len(out.Items))
	//注文時点のスナップショットが返る
	assert.Equal(t, "mug", out.Items[0].Name)
	assert.Equal(t, int64(1500), out.Items[0].UnitPrice)
}
