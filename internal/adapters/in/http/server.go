package http

import (
	"context"
	"log/slog"
	"net/http"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/application/usecases/queries"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	TransitionOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.TransitionOrderStatusCommand) (*order.Order, error)
	}
	RecomputeOrderTotalsHandler interface {
		Handle(ctx context.Context, cmd commands.RecomputeOrderTotalsCommand) (*order.Order, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
	}
	ListOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderSummaryView, error)
	}
	GetSalesSummaryHandler interface {
		Handle(ctx context.Context, query queries.GetSalesSummaryQuery) (queries.SalesSummaryView, error)
	}
)

// Server implements ServerInterface on top of the application use cases.
// Commands return the fresh read model of the order they touched.
type Server struct {
	createOrderHandler      CreateOrderHandler
	transitionStatusHandler TransitionOrderStatusHandler
	recomputeTotalsHandler  RecomputeOrderTotalsHandler

	getOrderHandler        GetOrderHandler
	listOrdersHandler      ListOrdersHandler
	getSalesSummaryHandler GetSalesSummaryHandler

	logger *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

func NewServer(
	createOrderHandler CreateOrderHandler,
	transitionStatusHandler TransitionOrderStatusHandler,
	recomputeTotalsHandler RecomputeOrderTotalsHandler,
	getOrderHandler GetOrderHandler,
	listOrdersHandler ListOrdersHandler,
	getSalesSummaryHandler GetSalesSummaryHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:      createOrderHandler,
		transitionStatusHandler: transitionStatusHandler,
		recomputeTotalsHandler:  recomputeTotalsHandler,
		getOrderHandler:         getOrderHandler,
		listOrdersHandler:       listOrdersHandler,
		getSalesSummaryHandler:  getSalesSummaryHandler,
		logger:                  logger.With("component", "http"),
	}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	restaurantID, err := kernel.UUIDFromRaw(body.RestaurantId)
	if err != nil {
		return s.fail(ctx, errs.NewValidationError("restaurantId", "is required"))
	}
	customerID, err := optionalID(body.CustomerId)
	if err != nil {
		return s.fail(ctx, errs.NewValidationError("customerId", "is invalid"))
	}
	addressID, err := optionalID(body.DeliveryAddressId)
	if err != nil {
		return s.fail(ctx, errs.NewValidationError("deliveryAddressId", "is invalid"))
	}

	items := make([]commands.OrderItemInput, 0, len(body.Items))
	for _, it := range body.Items {
		menuItemID, _ := kernel.UUIDFromRaw(it.MenuItemId)
		items = append(items, commands.OrderItemInput{
			MenuItemID: menuItemID,
			Quantity:   it.Quantity,
			Notes:      deref(it.Notes),
		})
	}

	cmd, err := commands.NewCreateOrderCommand(
		restaurantID, customerID, addressID,
		deref(body.CouponCode), deref(body.Channel), deref(body.CustomerNotes),
		items,
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respondWithOrder(ctx, http.StatusCreated, created.ID())
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(ctx echo.Context, params ListOrdersParams) error {
	restaurantID, err := kernel.UUIDFromRaw(params.RestaurantId)
	if err != nil {
		return s.fail(ctx, errs.NewValidationError("restaurantId", "is required"))
	}
	var statuses []string
	if params.Status != nil {
		statuses = *params.Status
	}
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewListOrdersQuery(restaurantID, statuses, limit)
	if err != nil {
		return s.fail(ctx, err)
	}
	views, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]OrderSummary, len(views))
	for i, v := range views {
		response[i] = OrderSummary{
			Id:         v.ID.Bytes(),
			Number:     v.Number,
			Status:     v.Status,
			Channel:    v.Channel,
			Total:      v.Total,
			EtaReadyAt: v.EtaReadyAt,
			CreatedAt:  v.CreatedAt,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	orderID, err := kernel.UUIDFromRaw(orderId)
	if err != nil {
		return s.fail(ctx, errs.NewValidationError("orderId", "is required"))
	}
	return s.respondWithOrder(ctx, http.StatusOK, orderID)
}

// TransitionOrderStatus handles POST /api/v1/orders/{orderId}/status.
func (s *Server) TransitionOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error {
	var body StatusChange
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	orderID, err := kernel.UUIDFromRaw(orderId)
	if err != nil {
		return s.fail(ctx, errs.NewValidationError("orderId", "is required"))
	}
	cmd, err := commands.NewTransitionOrderStatusCommand(orderID, body.Status)
	if err != nil {
		return s.fail(ctx, err)
	}

	updated, err := s.transitionStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respondWithOrder(ctx, http.StatusOK, updated.ID())
}

// RecomputeOrderTotals handles POST /api/v1/orders/{orderId}/recompute.
func (s *Server) RecomputeOrderTotals(ctx echo.Context, orderId openapi_types.UUID) error {
	orderID, err := kernel.UUIDFromRaw(orderId)
	if err != nil {
		return s.fail(ctx, errs.NewValidationError("orderId", "is required"))
	}
	cmd, err := commands.NewRecomputeOrderTotalsCommand(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}

	updated, err := s.recomputeTotalsHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respondWithOrder(ctx, http.StatusOK, updated.ID())
}

// GetSalesSummary handles GET /api/v1/kpi/sales-summary.
func (s *Server) GetSalesSummary(ctx echo.Context, params GetSalesSummaryParams) error {
	restaurantID, err := kernel.UUIDFromRaw(params.RestaurantId)
	if err != nil {
		return s.fail(ctx, errs.NewValidationError("restaurantId", "is required"))
	}
	query, err := queries.NewGetSalesSummaryQuery(restaurantID)
	if err != nil {
		return s.fail(ctx, err)
	}

	view, err := s.getSalesSummaryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	topItems := make([]TopItem, len(view.TopItems))
	for i, it := range view.TopItems {
		topItems[i] = TopItem{
			MenuItemId: it.MenuItemID.Bytes(),
			Name:       it.Name,
			Quantity:   it.Quantity,
			Revenue:    it.Revenue,
		}
	}
	return ctx.JSON(http.StatusOK, SalesSummary{
		TotalOrders:      view.TotalOrders,
		CompletedRevenue: view.CompletedRevenue,
		TodayRevenue:     view.TodayRevenue,
		OrdersByStatus:   view.OrdersByStatus,
		TopItems:         topItems,
	})
}

func (s *Server) respondWithOrder(ctx echo.Context, status int, orderID kernel.UUID) error {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}
	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(status, toOrder(view))
}

func (s *Server) fail(ctx echo.Context, err error) error {
	body := errorBody(err)
	if body.Code >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
	}
	return ctx.JSON(body.Code, body)
}

func toOrder(v queries.OrderView) Order {
	items := make([]OrderItem, len(v.Items))
	for i, it := range v.Items {
		items[i] = OrderItem{
			MenuItemId: it.MenuItemID.Bytes(),
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			LineTotal:  it.LineTotal,
			Notes:      optionalString(it.Notes),
		}
	}

	out := Order{
		Id:                   v.ID.Bytes(),
		RestaurantId:         v.RestaurantID.Bytes(),
		CustomerId:           rawID(v.CustomerID),
		DeliveryAddressId:    rawID(v.AddressID),
		Number:               v.Number,
		Status:               v.Status,
		Channel:              v.Channel,
		Subtotal:             v.Subtotal,
		Discount:             v.Discount,
		DeliveryFee:          v.DeliveryFee,
		Total:                v.Total,
		EstimatedPrepMinutes: v.EstimatedPrepMinutes,
		EtaReadyAt:           v.EtaReadyAt,
		CustomerNotes:        optionalString(v.CustomerNotes),
		Timestamps: StatusTimestamps{
			PendingAt:    v.Timestamps.PendingAt,
			InProgressAt: v.Timestamps.InProgressAt,
			ReadyAt:      v.Timestamps.ReadyAt,
			CompletedAt:  v.Timestamps.CompletedAt,
			CancelledAt:  v.Timestamps.CancelledAt,
		},
		CreatedAt: v.CreatedAt,
		Items:     items,
	}
	if v.Coupon != nil {
		out.Coupon = &Coupon{Code: v.Coupon.Code, IsExpired: v.Coupon.IsExpired, IsUsable: v.Coupon.IsUsable}
	}
	return out
}

func optionalID(raw *openapi_types.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromRaw(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func rawID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
