package commands_test

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/domain/model/catalog"
	"orderengine/internal/core/domain/model/coupon"
	"orderengine/internal/core/domain/model/customer"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetPendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockCouponRepository struct{ mock.Mock }

func (m *MockCouponRepository) Add(ctx context.Context, c *coupon.Coupon) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCouponRepository) Get(ctx context.Context, id kernel.UUID) (*coupon.Coupon, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*coupon.Coupon)
	return c, args.Error(1)
}

func (m *MockCouponRepository) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(*coupon.Coupon)
	return c, args.Error(1)
}

type MockCouponLedger struct{ mock.Mock }

func (m *MockCouponLedger) TryIncrement(ctx context.Context, couponID, restaurantID kernel.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, couponID, restaurantID, now)
	return args.Bool(0), args.Error(1)
}

type MockCatalogRepository struct{ mock.Mock }

func (m *MockCatalogRepository) AddRestaurant(ctx context.Context, r *catalog.Restaurant) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockCatalogRepository) AddMenuItem(ctx context.Context, item *catalog.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockCatalogRepository) GetRestaurant(ctx context.Context, id kernel.UUID) (*catalog.Restaurant, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*catalog.Restaurant)
	return r, args.Error(1)
}

func (m *MockCatalogRepository) GetMenuItems(ctx context.Context, ids []kernel.UUID) ([]*catalog.MenuItem, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]*catalog.MenuItem)
	return items, args.Error(1)
}

type MockCustomerRepository struct{ mock.Mock }

func (m *MockCustomerRepository) AddCustomer(ctx context.Context, c *customer.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) AddAddress(ctx context.Context, a *customer.Address) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockCustomerRepository) GetCustomer(ctx context.Context, id kernel.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*customer.Customer)
	return c, args.Error(1)
}

func (m *MockCustomerRepository) GetAddress(ctx context.Context, id kernel.UUID) (*customer.Address, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*customer.Address)
	return a, args.Error(1)
}

// MockUoW mocks the transaction calls and hands out the repository mocks it holds.
type MockUoW struct {
	mock.Mock
	orders    *MockOrderRepository
	coupons   *MockCouponRepository
	ledger    *MockCouponLedger
	catalog   *MockCatalogRepository
	customers *MockCustomerRepository
}

func NewMockUoW() *MockUoW {
	return &MockUoW{
		orders:    new(MockOrderRepository),
		coupons:   new(MockCouponRepository),
		ledger:    new(MockCouponLedger),
		catalog:   new(MockCatalogRepository),
		customers: new(MockCustomerRepository),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository       { return m.orders }
func (m *MockUoW) CouponRepository() ports.CouponRepository     { return m.coupons }
func (m *MockUoW) CouponLedger() ports.CouponLedger             { return m.ledger }
func (m *MockUoW) CatalogRepository() ports.CatalogRepository   { return m.catalog }
func (m *MockUoW) CustomerRepository() ports.CustomerRepository { return m.customers }

// expectTx allows any number of transactions that begin and roll back; commit
// returns the given errors in turn and nil afterwards.
func (m *MockUoW) expectTx(commitErrs ...error) {
	m.On("Begin", mock.Anything).Return(nil)
	m.On("Rollback", mock.Anything).Return(nil)
	for _, err := range commitErrs {
		m.On("Commit", mock.Anything).Return(err).Once()
	}
	m.On("Commit", mock.Anything).Return(nil)
}

type uowFactoryFunc func() commands.UoW

func (f uowFactoryFunc) Create() commands.UoW { return f() }

type orderUoWFactoryFunc func() commands.OrderUoW

func (f orderUoWFactoryFunc) Create() commands.OrderUoW { return f() }

type pricingUoWFactoryFunc func() commands.PricingUoW

func (f pricingUoWFactoryFunc) Create() commands.PricingUoW { return f() }

func fixedClock(now time.Time) kernel.Clock {
	return kernel.ClockFunc(func() time.Time { return now })
}

// sequentialNumbers issues ORD-<date>-000001, -000002, ...
func sequentialNumbers() order.NumberGenerator {
	n := 0
	return order.NumberGeneratorFunc(func(now time.Time) order.Number {
		n++
		number, err := order.ParseNumber(fmt.Sprintf("ORD-%s-%06X", now.Format("20060102"), n))
		if err != nil {
			panic(err)
		}
		return number
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func quantity(n int) kernel.Quantity {
	q, err := kernel.NewQuantity(n)
	if err != nil {
		panic(err)
	}
	return q
}
