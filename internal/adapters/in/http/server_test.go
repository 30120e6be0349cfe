package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpin "orderengine/internal/adapters/in/http"
	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/application/usecases/queries"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCreate struct{ mock.Mock }

func (m *mockCreate) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type mockTransition struct{ mock.Mock }

func (m *mockTransition) Handle(ctx context.Context, cmd commands.TransitionOrderStatusCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type mockRecompute struct{ mock.Mock }

func (m *mockRecompute) Handle(ctx context.Context, cmd commands.RecomputeOrderTotalsCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type mockGetOrder struct{ mock.Mock }

func (m *mockGetOrder) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.OrderView), args.Error(1)
}

type mockListOrders struct{ mock.Mock }

func (m *mockListOrders) Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderSummaryView, error) {
	args := m.Called(ctx, query)
	views, _ := args.Get(0).([]queries.OrderSummaryView)
	return views, args.Error(1)
}

type mockSalesSummary struct{ mock.Mock }

func (m *mockSalesSummary) Handle(ctx context.Context, query queries.GetSalesSummaryQuery) (queries.SalesSummaryView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.SalesSummaryView), args.Error(1)
}

type fixture struct {
	create     *mockCreate
	transition *mockTransition
	recompute  *mockRecompute
	getOrder   *mockGetOrder
	list       *mockListOrders
	summary    *mockSalesSummary
	router     *echo.Echo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		create:     &mockCreate{},
		transition: &mockTransition{},
		recompute:  &mockRecompute{},
		getOrder:   &mockGetOrder{},
		list:       &mockListOrders{},
		summary:    &mockSalesSummary{},
	}
	logger := slog.New(slog.DiscardHandler)
	server := httpin.NewServer(f.create, f.transition, f.recompute, f.getOrder, f.list, f.summary, logger)

	router, err := httpin.NewRouter(t.Context(), server, logger)
	require.NoError(t, err)
	f.router = router

	t.Cleanup(func() {
		f.create.AssertExpectations(t)
		f.transition.AssertExpectations(t)
		f.recompute.AssertExpectations(t)
		f.getOrder.AssertExpectations(t)
		f.list.AssertExpectations(t)
		f.summary.AssertExpectations(t)
	})
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

var created = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), order.RandomNumberGenerator{}.Next(created),
		order.ChannelWeb, kernel.NewMoney(2000), created)
	require.NoError(t, err)
	return o
}

func viewOf(o *order.Order, status string) queries.OrderView {
	return queries.OrderView{
		ID:           o.ID(),
		RestaurantID: o.RestaurantID(),
		Number:       o.Number().String(),
		Status:       status,
		Channel:      "web",
		Subtotal:     8000,
		Discount:     800,
		DeliveryFee:  2000,
		Total:        9200,
		Timestamps:   queries.StatusTimestampsView{PendingAt: &created},
		CreatedAt:    created,
		Items: []queries.OrderItemView{
			{MenuItemID: kernel.NewUUID(), Name: "Soup", Quantity: 1, UnitPrice: 8000, LineTotal: 8000},
		},
		Coupon: &queries.CouponView{Code: "TEN", IsUsable: true},
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpin.Error {
	t.Helper()
	var body httpin.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func Test_Health(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func Test_SwaggerServesEmbeddedDocument(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/swagger/doc.json", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/orders")
}

func Test_CreateOrderReturnsCreatedView(t *testing.T) {
	f := newFixture(t)
	o := newPendingOrder(t)
	restaurantID := kernel.NewUUID()
	menuItemID := kernel.NewUUID()

	f.create.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
		return cmd.RestaurantID().IsEqual(restaurantID) &&
			cmd.CouponCode() == "TEN" &&
			cmd.Channel() == order.ChannelWhatsApp &&
			len(cmd.Items()) == 1 && cmd.Items()[0].Quantity.Int() == 2
	})).Return(o, nil).Once()
	f.getOrder.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderQuery) bool {
		return q.OrderID().IsEqual(o.ID())
	})).Return(viewOf(o, "PENDING"), nil).Once()

	body := fmt.Sprintf(`{"restaurantId":%q,"couponCode":"TEN","channel":"whatsapp","items":[{"menuItemId":%q,"quantity":2}]}`,
		restaurantID, menuItemID)
	rec := f.do(http.MethodPost, "/api/v1/orders", body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var got httpin.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, o.ID().Bytes(), got.Id)
	assert.Equal(t, "PENDING", got.Status)
	assert.Equal(t, int64(9200), got.Total)
	require.NotNil(t, got.Coupon)
	assert.Equal(t, "TEN", got.Coupon.Code)
	require.Len(t, got.Items, 1)
}

func Test_CreateOrderRejectsBodyMissingItems(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/orders", fmt.Sprintf(`{"restaurantId":%q}`, kernel.NewUUID()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.create.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func Test_CreateOrderRejectsOversizedQuantity(t *testing.T) {
	f := newFixture(t)

	body := fmt.Sprintf(`{"restaurantId":%q,"items":[{"menuItemId":%q,"quantity":2147483647}]}`,
		kernel.NewUUID(), kernel.NewUUID())
	rec := f.do(http.MethodPost, "/api/v1/orders", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.create.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func Test_CreateOrderReportsFieldErrors(t *testing.T) {
	f := newFixture(t)

	body := fmt.Sprintf(`{"restaurantId":%q,"items":[]}`, kernel.NewUUID())
	rec := f.do(http.MethodPost, "/api/v1/orders", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeError(t, rec)
	assert.Contains(t, got.Fields, "items")
}

func Test_CreateOrderMapsHandlerErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"missing menu item", errs.NewObjectNotFoundError("menu items", "x"), http.StatusNotFound},
		{"exhausted coupon", errs.NewValidationError("coupon", "usage limit reached"), http.StatusBadRequest},
		{"serialization failure", errs.NewTransientStoreError(nil), http.StatusServiceUnavailable},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.create.On("Handle", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			body := fmt.Sprintf(`{"restaurantId":%q,"items":[{"menuItemId":%q,"quantity":1}]}`,
				kernel.NewUUID(), kernel.NewUUID())
			rec := f.do(http.MethodPost, "/api/v1/orders", body)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func Test_GetOrder(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t)
		o := newPendingOrder(t)
		f.getOrder.On("Handle", mock.Anything, mock.Anything).Return(viewOf(o, "READY"), nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+o.ID().String(), "")

		require.Equal(t, http.StatusOK, rec.Code)
		var got httpin.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "READY", got.Status)
		assert.Equal(t, o.Number().String(), got.Number)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		id := kernel.NewUUID()
		f.getOrder.On("Handle", mock.Anything, mock.Anything).
			Return(queries.OrderView{}, errs.NewObjectNotFoundError("order", id)).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+id.String(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("store unavailable", func(t *testing.T) {
		f := newFixture(t)
		id := kernel.NewUUID()
		f.getOrder.On("Handle", mock.Anything, mock.Anything).
			Return(queries.OrderView{}, errs.NewTransientStoreError(errors.New("lock timeout"))).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+id.String(), "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/orders/not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_TransitionOrderStatus(t *testing.T) {
	t.Run("applies the requested status", func(t *testing.T) {
		f := newFixture(t)
		o := newPendingOrder(t)
		f.transition.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.TransitionOrderStatusCommand) bool {
			return cmd.OrderID().IsEqual(o.ID()) && cmd.Status() == order.InProgress
		})).Return(o, nil).Once()
		f.getOrder.On("Handle", mock.Anything, mock.Anything).Return(viewOf(o, "IN_PROGRESS"), nil).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+o.ID().String()+"/status", `{"status":"IN_PROGRESS"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("terminal order conflicts", func(t *testing.T) {
		f := newFixture(t)
		id := kernel.NewUUID()
		f.transition.On("Handle", mock.Anything, mock.Anything).
			Return(nil, errs.NewConflictError("status", "COMPLETED is terminal")).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+id.String()+"/status", `{"status":"CANCELLED"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown status is rejected before the handler", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/status", `{"status":"LOST"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_RecomputeOrderTotals(t *testing.T) {
	f := newFixture(t)
	o := newPendingOrder(t)
	f.recompute.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RecomputeOrderTotalsCommand) bool {
		return cmd.OrderID().IsEqual(o.ID())
	})).Return(o, nil).Once()
	f.getOrder.On("Handle", mock.Anything, mock.Anything).Return(viewOf(o, "PENDING"), nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders/"+o.ID().String()+"/recompute", "")

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func Test_ListOrdersPassesFilters(t *testing.T) {
	f := newFixture(t)
	restaurantID := kernel.NewUUID()
	f.list.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListOrdersQuery) bool {
		return q.RestaurantID().IsEqual(restaurantID) &&
			assert.ObjectsAreEqual([]order.Status{order.Pending, order.Ready}, q.Statuses()) &&
			q.Limit() == 10
	})).Return([]queries.OrderSummaryView{
		{ID: kernel.NewUUID(), Number: "ORD-20261015-00000A", Status: "READY", Channel: "web", Total: 5000, CreatedAt: created},
	}, nil).Once()

	rec := f.do(http.MethodGet,
		"/api/v1/orders?restaurantId="+restaurantID.String()+"&status=PENDING&status=READY&limit=10", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got []httpin.OrderSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "ORD-20261015-00000A", got[0].Number)
}

func Test_ListOrdersRequiresRestaurant(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/orders", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_GetSalesSummary(t *testing.T) {
	f := newFixture(t)
	restaurantID := kernel.NewUUID()
	burger := kernel.NewUUID()
	f.summary.On("Handle", mock.Anything, mock.Anything).Return(queries.SalesSummaryView{
		TotalOrders:      3,
		CompletedRevenue: 42000,
		TodayRevenue:     12000,
		OrdersByStatus:   map[string]int64{"COMPLETED": 2, "PENDING": 1},
		TopItems:         []queries.TopItemView{{MenuItemID: burger, Name: "Burger", Quantity: 4, Revenue: 36000}},
	}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/kpi/sales-summary?restaurantId="+restaurantID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got httpin.SalesSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(42000), got.CompletedRevenue)
	assert.Equal(t, int64(2), got.OrdersByStatus["COMPLETED"])
	require.Len(t, got.TopItems, 1)
	assert.Equal(t, burger.Bytes(), got.TopItems[0].MenuItemId)
	assert.Equal(t, int64(36000), got.TopItems[0].Revenue)
}
