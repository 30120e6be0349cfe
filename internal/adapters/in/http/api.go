package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Wire types mirror the schemas in openapi.yaml. Money is in minor units.

type Error struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

type NewOrder struct {
	RestaurantId      openapi_types.UUID  `json:"restaurantId"`
	CustomerId        *openapi_types.UUID `json:"customerId,omitempty"`
	DeliveryAddressId *openapi_types.UUID `json:"deliveryAddressId,omitempty"`
	CouponCode        *string             `json:"couponCode,omitempty"`
	Channel           *string             `json:"channel,omitempty"`
	CustomerNotes     *string             `json:"customerNotes,omitempty"`
	Items             []NewOrderItem      `json:"items"`
}

type NewOrderItem struct {
	MenuItemId openapi_types.UUID `json:"menuItemId"`
	Quantity   int                `json:"quantity"`
	Notes      *string            `json:"notes,omitempty"`
}

type StatusChange struct {
	Status string `json:"status"`
}

type Order struct {
	Id                   openapi_types.UUID  `json:"id"`
	RestaurantId         openapi_types.UUID  `json:"restaurantId"`
	CustomerId           *openapi_types.UUID `json:"customerId,omitempty"`
	DeliveryAddressId    *openapi_types.UUID `json:"deliveryAddressId,omitempty"`
	Number               string              `json:"number"`
	Status               string              `json:"status"`
	Channel              string              `json:"channel"`
	Subtotal             int64               `json:"subtotal"`
	Discount             int64               `json:"discount"`
	DeliveryFee          int64               `json:"deliveryFee"`
	Total                int64               `json:"total"`
	EstimatedPrepMinutes int                 `json:"estimatedPrepMinutes"`
	EtaReadyAt           *time.Time          `json:"etaReadyAt,omitempty"`
	CustomerNotes        *string             `json:"customerNotes,omitempty"`
	Timestamps           StatusTimestamps    `json:"timestamps"`
	CreatedAt            time.Time           `json:"createdAt"`
	Items                []OrderItem         `json:"items"`
	Coupon               *Coupon             `json:"coupon,omitempty"`
}

type StatusTimestamps struct {
	PendingAt    *time.Time `json:"pendingAt,omitempty"`
	InProgressAt *time.Time `json:"inProgressAt,omitempty"`
	ReadyAt      *time.Time `json:"readyAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`
}

type OrderItem struct {
	MenuItemId openapi_types.UUID `json:"menuItemId"`
	Name       string             `json:"name"`
	Quantity   int                `json:"quantity"`
	UnitPrice  int64              `json:"unitPrice"`
	LineTotal  int64              `json:"lineTotal"`
	Notes      *string            `json:"notes,omitempty"`
}

type Coupon struct {
	Code      string `json:"code"`
	IsExpired bool   `json:"isExpired"`
	IsUsable  bool   `json:"isUsable"`
}

type OrderSummary struct {
	Id         openapi_types.UUID `json:"id"`
	Number     string             `json:"number"`
	Status     string             `json:"status"`
	Channel    string             `json:"channel"`
	Total      int64              `json:"total"`
	EtaReadyAt *time.Time         `json:"etaReadyAt,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
}

type SalesSummary struct {
	TotalOrders      int64            `json:"totalOrders"`
	CompletedRevenue int64            `json:"completedRevenue"`
	TodayRevenue     int64            `json:"todayRevenue"`
	OrdersByStatus   map[string]int64 `json:"ordersByStatus"`
	TopItems         []TopItem        `json:"topItems"`
}

type TopItem struct {
	MenuItemId openapi_types.UUID `json:"menuItemId"`
	Name       string             `json:"name"`
	Quantity   int64              `json:"quantity"`
	Revenue    int64              `json:"revenue"`
}

type ListOrdersParams struct {
	RestaurantId openapi_types.UUID `form:"restaurantId" json:"restaurantId"`
	Status       *[]string          `form:"status,omitempty" json:"status,omitempty"`
	Limit        *int               `form:"limit,omitempty" json:"limit,omitempty"`
}

type GetSalesSummaryParams struct {
	RestaurantId openapi_types.UUID `form:"restaurantId" json:"restaurantId"`
}

// ServerInterface lists the operations declared in openapi.yaml.
type ServerInterface interface {
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// (GET /api/v1/orders)
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	// (GET /api/v1/orders/{orderId})
	GetOrder(ctx echo.Context, orderId openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/status)
	TransitionOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/recompute)
	RecomputeOrderTotals(ctx echo.Context, orderId openapi_types.UUID) error
	// (GET /api/v1/kpi/sales-summary)
	GetSalesSummary(ctx echo.Context, params GetSalesSummaryParams) error
}

// ServerInterfaceWrapper binds path and query parameters before delegating.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var params ListOrdersParams

	if err := runtime.BindQueryParameter("form", true, true, "restaurantId", ctx.QueryParams(), &params.RestaurantId); err != nil {
		return badParameter("restaurantId", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status); err != nil {
		return badParameter("status", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit); err != nil {
		return badParameter("limit", err)
	}

	return w.Handler.ListOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, orderID)
}

func (w *ServerInterfaceWrapper) TransitionOrderStatus(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.TransitionOrderStatus(ctx, orderID)
}

func (w *ServerInterfaceWrapper) RecomputeOrderTotals(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.RecomputeOrderTotals(ctx, orderID)
}

func (w *ServerInterfaceWrapper) GetSalesSummary(ctx echo.Context) error {
	var params GetSalesSummaryParams

	if err := runtime.BindQueryParameter("form", true, true, "restaurantId", ctx.QueryParams(), &params.RestaurantId); err != nil {
		return badParameter("restaurantId", err)
	}

	return w.Handler.GetSalesSummary(ctx, params)
}

func bindOrderID(ctx echo.Context) (openapi_types.UUID, error) {
	var orderID openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return orderID, badParameter("orderId", err)
	}
	return orderID, nil
}

func badParameter(name string, err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
}

// EchoRouter is the subset of echo.Echo and echo.Group that RegisterHandlers needs.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

func RegisterHandlers(router EchoRouter, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST("/api/v1/orders", wrapper.CreateOrder)
	router.GET("/api/v1/orders", wrapper.ListOrders)
	router.GET("/api/v1/orders/:orderId", wrapper.GetOrder)
	router.POST("/api/v1/orders/:orderId/status", wrapper.TransitionOrderStatus)
	router.POST("/api/v1/orders/:orderId/recompute", wrapper.RecomputeOrderTotals)
	router.GET("/api/v1/kpi/sales-summary", wrapper.GetSalesSummary)
}
