package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"orderengine/internal/core/domain/model/catalog"
	"orderengine/internal/core/domain/model/coupon"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
)

// DefaultNumberAttempts bounds how many order numbers are tried before giving up.
const DefaultNumberAttempts = 5

// CreateOrderCommandHandler validates a cart against the catalog, customer and
// coupon collaborators and persists the priced order in one unit of work.
//
// The coupon ledger is consulted last, right before the insert. When the coupon
// ran out between validation and the increment, the order is still created,
// without the coupon and with a zero discount.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, kernel.SystemClock{}, order.RandomNumberGenerator{}, logger)
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrValidation) {
//	    // nothing was written
//	}
type CreateOrderCommandHandler struct {
	uowFactory     UoWFactory
	clock          kernel.Clock
	numbers        order.NumberGenerator
	numberAttempts int
	retry          RetryPolicy
	logger         *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	clock kernel.Clock,
	numbers order.NumberGenerator,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:     uowFactory,
		clock:          clock,
		numbers:        numbers,
		numberAttempts: DefaultNumberAttempts,
		retry:          DefaultRetryPolicy(),
		logger:         logger.With("component", "create_order"),
	}
}

// WithRetryPolicy returns a copy of the handler replaying transient failures per policy.
func (h CreateOrderCommandHandler) WithRetryPolicy(policy RetryPolicy) CreateOrderCommandHandler {
	h.retry = policy
	return h
}

// WithNumberAttempts returns a copy of the handler trying at most n order numbers.
func (h CreateOrderCommandHandler) WithNumberAttempts(n int) CreateOrderCommandHandler {
	if n < 1 {
		n = 1
	}
	h.numberAttempts = n
	return h
}

// Handle creates the order. Validation failures return errs.ValidationError or
// errs.ObjectNotFoundError before anything is written; store failures that may
// succeed on retry are replayed and finally surface as errs.TransientStoreError.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var created *order.Order
	err := runWithRetry(ctx, h.retry, h.logger, func() error {
		o, err := h.create(ctx, cmd)
		if err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order created",
		"order_id", created.ID().String(),
		"number", created.Number().String(),
		"total", created.Total().Amount(),
		"coupon_redeemed", created.IsCouponRedeemed(),
	)
	return created, nil
}

func (h *CreateOrderCommandHandler) create(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	restaurant, menu, err := h.loadCatalog(ctx, uow.CatalogRepository(), cmd)
	if err != nil {
		return nil, err
	}
	if err = h.checkCustomer(ctx, uow.CustomerRepository(), cmd); err != nil {
		return nil, err
	}
	c, err := h.loadCoupon(ctx, uow.CouponRepository(), cmd.CouponCode(), restaurant.ID(), now)
	if err != nil {
		return nil, err
	}

	o, err := h.buildOrder(cmd, restaurant, menu, c, now)
	if err != nil {
		return nil, err
	}

	if o.CouponID() != nil {
		if err = h.redeemCoupon(ctx, uow.CouponLedger(), o, now); err != nil {
			return nil, err
		}
	}

	if err = h.insert(ctx, uow.OrderRepository(), o, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

func (h *CreateOrderCommandHandler) loadCatalog(
	ctx context.Context,
	repo ports.CatalogRepository,
	cmd CreateOrderCommand,
) (*catalog.Restaurant, map[kernel.UUID]*catalog.MenuItem, error) {
	restaurant, err := repo.GetRestaurant(ctx, cmd.RestaurantID())
	if err != nil {
		return nil, nil, err
	}
	if !restaurant.IsActive() {
		return nil, nil, errs.NewObjectNotFoundErrorWithCause("restaurant", restaurant.ID(),
			errors.New("restaurant is not active"))
	}

	found, err := repo.GetMenuItems(ctx, cmd.MenuItemIDs())
	if err != nil {
		return nil, nil, err
	}

	menu := make(map[kernel.UUID]*catalog.MenuItem, len(found))
	for _, item := range found {
		menu[item.ID()] = item
	}

	var missing []string
	for _, id := range cmd.MenuItemIDs() {
		item, ok := menu[id]
		if !ok || !item.IsOrderableFrom(restaurant.ID()) {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return nil, nil, errs.NewObjectNotFoundError("menu items", strings.Join(missing, ", "))
	}

	return restaurant, menu, nil
}

func (h *CreateOrderCommandHandler) checkCustomer(ctx context.Context, repo ports.CustomerRepository, cmd CreateOrderCommand) error {
	if cmd.CustomerID() == nil {
		return nil
	}

	cust, err := repo.GetCustomer(ctx, *cmd.CustomerID())
	if err != nil {
		return err
	}
	if cmd.AddressID() == nil {
		return nil
	}

	address, err := repo.GetAddress(ctx, *cmd.AddressID())
	if err != nil {
		return err
	}
	if !address.IsOwnedBy(cust.ID()) {
		return errs.NewValidationError("deliveryAddress", "address does not belong to the customer")
	}
	return nil
}

func (h *CreateOrderCommandHandler) loadCoupon(
	ctx context.Context,
	repo ports.CouponRepository,
	code string,
	restaurantID kernel.UUID,
	now time.Time,
) (*coupon.Coupon, error) {
	if code == "" {
		return nil, nil
	}

	c, err := repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	switch {
	case !c.BelongsTo(restaurantID):
		return nil, errs.NewValidationError("coupon", "coupon does not apply to this restaurant")
	case !c.IsActive():
		return nil, errs.NewValidationError("coupon", "coupon is not active")
	case c.IsExpired(now):
		return nil, errs.NewValidationError("coupon", "coupon has expired")
	case !c.HasUsesLeft():
		return nil, errs.NewValidationError("coupon", "coupon usage limit reached")
	}
	return c, nil
}

func (h *CreateOrderCommandHandler) buildOrder(
	cmd CreateOrderCommand,
	restaurant *catalog.Restaurant,
	menu map[kernel.UUID]*catalog.MenuItem,
	c *coupon.Coupon,
	now time.Time,
) (*order.Order, error) {
	o, err := order.NewOrder(kernel.NewUUID(), restaurant.ID(), h.numbers.Next(now), cmd.Channel(), restaurant.BaseDeliveryFee(), now)
	if err != nil {
		return nil, err
	}
	if err = o.AssignCustomer(cmd.CustomerID(), cmd.AddressID()); err != nil {
		return nil, err
	}
	o.SetNotes(cmd.CustomerNotes(), "")

	prepMinutes := 0
	for _, in := range cmd.Items() {
		item := menu[in.MenuItemID]

		line, err := order.NewLineItem(item.ID(), item.Name(), in.Quantity, item.Price(), in.Notes)
		if err != nil {
			return nil, err
		}
		if err = o.AddLineItem(line, nil, now); err != nil {
			return nil, err
		}
		prepMinutes = max(prepMinutes, item.PrepMinutes(restaurant.DefaultPrepMinutes()))
	}
	if prepMinutes == 0 {
		prepMinutes = restaurant.DefaultPrepMinutes()
	}
	if err = o.ScheduleReady(prepMinutes, now); err != nil {
		return nil, err
	}

	if c != nil {
		if err = o.AttachCoupon(c, now); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// redeemCoupon records the use in the ledger. Losing the race detaches the
// coupon instead of failing the order.
func (h *CreateOrderCommandHandler) redeemCoupon(ctx context.Context, ledger ports.CouponLedger, o *order.Order, now time.Time) error {
	couponID := *o.CouponID()

	ok, err := ledger.TryIncrement(ctx, couponID, o.RestaurantID(), now)
	if err != nil {
		return err
	}
	if ok {
		return o.ConfirmCouponRedemption()
	}

	h.logger.InfoContext(ctx, "coupon no longer usable, creating order without it",
		"order_id", o.ID().String(), "coupon_id", couponID.String())
	return o.DetachCoupon(now)
}

// insert adds the order, drawing a new number each time the store reports a
// collision.
func (h *CreateOrderCommandHandler) insert(ctx context.Context, repo ports.OrderRepository, o *order.Order, now time.Time) error {
	for attempt := 1; ; attempt++ {
		err := repo.Add(ctx, o)
		if !errors.Is(err, ports.ErrOrderNumberTaken) {
			return err
		}
		if attempt >= h.numberAttempts {
			return fmt.Errorf("allocate order number after %d attempts: %w", attempt, err)
		}

		h.logger.WarnContext(ctx, "order number taken, drawing another",
			"number", o.Number().String(), "attempt", attempt)
		if err = o.Renumber(h.numbers.Next(now)); err != nil {
			return err
		}
	}
}
