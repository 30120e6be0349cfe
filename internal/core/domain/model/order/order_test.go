package order_test

import (
	"testing"
	"time"

	"orderengine/internal/core/domain/model/coupon"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func number(t *testing.T) order.Number {
	t.Helper()
	return order.RandomNumberGenerator{}.Next(now)
}

func newOrder(t *testing.T, restaurantID kernel.UUID, fee int64) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), restaurantID, number(t), order.ChannelWeb, kernel.NewMoney(fee), now)
	require.NoError(t, err)
	return o
}

func lineItem(t *testing.T, menuItemID kernel.UUID, qty int, price int64) *order.LineItem {
	t.Helper()
	q, err := kernel.NewQuantity(qty)
	require.NoError(t, err)
	item, err := order.NewLineItem(menuItemID, "Burger", q, kernel.NewMoney(price), "")
	require.NoError(t, err)
	return item
}

func percentCoupon(t *testing.T, restaurantID kernel.UUID, percent, maxUses, used int) *coupon.Coupon {
	t.Helper()
	c, err := coupon.RestoreCoupon(kernel.NewUUID(), restaurantID, "SAVE", coupon.Percentage, percent, kernel.Zero, maxUses, used, nil, true)
	require.NoError(t, err)
	return c
}

func TestNewOrder(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		id, restaurantID := kernel.NewUUID(), kernel.NewUUID()
		n := number(t)

		o, err := order.NewOrder(id, restaurantID, n, order.ChannelWhatsApp, kernel.NewMoney(3000), now)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, id, o.ID())
		assert.Equal(t, restaurantID, o.RestaurantID())
		assert.Equal(t, n, o.Number())
		assert.Equal(t, order.ChannelWhatsApp, o.Channel())
		assert.Equal(t, order.Pending, o.Status())
		assert.Empty(t, o.Items())
		assert.Nil(t, o.CouponID())
		assert.True(t, o.Subtotal().IsZero())
		assert.Equal(t, int64(3000), o.DeliveryFee().Amount())
		assert.Equal(t, int64(3000), o.Total().Amount())
		require.NotNil(t, o.Timestamps().PendingAt)
		assert.Equal(t, now, *o.Timestamps().PendingAt)
		assert.Nil(t, o.Timestamps().InProgressAt)
		assert.Equal(t, now, o.CreatedAt())
	})

	t.Run("invalid arguments are joined", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, kernel.UUID{}, order.Number{}, order.Channel("fax"), kernel.Zero, now)

		require.Error(t, err)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var o *order.Order
		assert.Equal(t, order.ErrOrderIsNotConstructed, o.Validate())
	})
}

func TestOrder_AddLineItem(t *testing.T) {
	restaurantID := kernel.NewUUID()

	t.Run("subtotal is rederived", func(t *testing.T) {
		o := newOrder(t, restaurantID, 500)

		require.NoError(t, o.AddLineItem(lineItem(t, kernel.NewUUID(), 2, 1500), nil, now))
		require.NoError(t, o.AddLineItem(lineItem(t, kernel.NewUUID(), 1, 4000), nil, now))

		assert.Len(t, o.Items(), 2)
		assert.Equal(t, int64(7000), o.Subtotal().Amount())
		assert.Equal(t, int64(7500), o.Total().Amount())
	})

	t.Run("duplicate menu item is rejected", func(t *testing.T) {
		o := newOrder(t, restaurantID, 0)
		menuItemID := kernel.NewUUID()
		require.NoError(t, o.AddLineItem(lineItem(t, menuItemID, 1, 100), nil, now))

		err := o.AddLineItem(lineItem(t, menuItemID, 3, 100), nil, now)

		require.ErrorIs(t, err, errs.ErrValidation)
		assert.Contains(t, err.Error(), menuItemID.String())
		assert.Len(t, o.Items(), 1)
	})

	t.Run("only while pending", func(t *testing.T) {
		o := newOrder(t, restaurantID, 0)
		require.NoError(t, o.TransitionTo(order.InProgress, now))

		err := o.AddLineItem(lineItem(t, kernel.NewUUID(), 1, 100), nil, now)

		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestOrder_Coupon(t *testing.T) {
	restaurantID := kernel.NewUUID()

	t.Run("percentage discount", func(t *testing.T) {
		o := newOrder(t, restaurantID, 0)
		require.NoError(t, o.AddLineItem(lineItem(t, kernel.NewUUID(), 1, 10000), nil, now))
		c := percentCoupon(t, restaurantID, 10, 0, 0)

		require.NoError(t, o.AttachCoupon(c, now))

		require.NotNil(t, o.CouponID())
		assert.Equal(t, c.ID(), *o.CouponID())
		assert.Equal(t, int64(1000), o.Discount().Amount())
		assert.Equal(t, int64(9000), o.Total().Amount())
	})

	t.Run("coupon of another restaurant", func(t *testing.T) {
		o := newOrder(t, restaurantID, 0)

		err := o.AttachCoupon(percentCoupon(t, kernel.NewUUID(), 10, 0, 0), now)

		require.ErrorIs(t, err, errs.ErrValidation)
		assert.Nil(t, o.CouponID())
	})

	t.Run("unusable coupon is dropped", func(t *testing.T) {
		o := newOrder(t, restaurantID, 200)
		require.NoError(t, o.AddLineItem(lineItem(t, kernel.NewUUID(), 1, 10000), nil, now))

		require.NoError(t, o.AttachCoupon(percentCoupon(t, restaurantID, 10, 1, 1), now))

		assert.Nil(t, o.CouponID())
		assert.True(t, o.Discount().IsZero())
		assert.Equal(t, int64(10200), o.Total().Amount())
	})

	t.Run("detach resets discount", func(t *testing.T) {
		o := newOrder(t, restaurantID, 200)
		require.NoError(t, o.AddLineItem(lineItem(t, kernel.NewUUID(), 1, 10000), nil, now))
		require.NoError(t, o.AttachCoupon(percentCoupon(t, restaurantID, 50, 0, 0), now))

		require.NoError(t, o.DetachCoupon(now))

		assert.Nil(t, o.CouponID())
		assert.True(t, o.Discount().IsZero())
		assert.Equal(t, int64(10200), o.Total().Amount())
	})

	t.Run("redeemed discount survives the cap being reached", func(t *testing.T) {
		o := newOrder(t, restaurantID, 0)
		require.NoError(t, o.AddLineItem(lineItem(t, kernel.NewUUID(), 1, 10000), nil, now))
		c := percentCoupon(t, restaurantID, 10, 1, 0)
		require.NoError(t, o.AttachCoupon(c, now))
		require.NoError(t, o.ConfirmCouponRedemption())

		usedUp, err := coupon.RestoreCoupon(c.ID(), restaurantID, c.Code(), coupon.Percentage, 10, kernel.Zero, 1, 1, nil, true)
		require.NoError(t, err)
		require.NoError(t, o.Reprice(usedUp, now))

		assert.True(t, o.IsCouponRedeemed())
		assert.Equal(t, int64(1000), o.Discount().Amount())
	})

	t.Run("reprice rejects a foreign coupon", func(t *testing.T) {
		o := newOrder(t, restaurantID, 0)

		err := o.Reprice(percentCoupon(t, restaurantID, 10, 0, 0), now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("confirm without coupon", func(t *testing.T) {
		o := newOrder(t, restaurantID, 0)
		require.ErrorIs(t, o.ConfirmCouponRedemption(), errs.ErrValueIsRequired)
	})
}

func TestOrder_RepriceIsIdempotent(t *testing.T) {
	restaurantID := kernel.NewUUID()
	o := newOrder(t, restaurantID, 350)
	require.NoError(t, o.AddLineItem(lineItem(t, kernel.NewUUID(), 3, 999), nil, now))
	c := percentCoupon(t, restaurantID, 15, 0, 0)
	require.NoError(t, o.AttachCoupon(c, now))

	first := o.Totals()
	require.NoError(t, o.Reprice(c, now))
	require.NoError(t, o.Reprice(c, now))

	assert.Equal(t, first, o.Totals())
	assert.Equal(t, int64(2997), first.Subtotal.Amount())
	assert.Equal(t, int64(449), first.Discount.Amount())
	assert.Equal(t, int64(2898), first.Total.Amount())
}

func TestOrder_AssignCustomer(t *testing.T) {
	o := newOrder(t, kernel.NewUUID(), 0)
	customerID, addressID := kernel.NewUUID(), kernel.NewUUID()

	require.ErrorIs(t, o.AssignCustomer(nil, &addressID), errs.ErrValidation)
	require.NoError(t, o.AssignCustomer(&customerID, &addressID))
	assert.Equal(t, customerID, *o.CustomerID())
	assert.Equal(t, addressID, *o.AddressID())
	require.NoError(t, o.AssignCustomer(nil, nil))
	assert.Nil(t, o.CustomerID())
}

func TestOrder_ScheduleReady(t *testing.T) {
	o := newOrder(t, kernel.NewUUID(), 0)

	require.NoError(t, o.ScheduleReady(25, now))

	assert.Equal(t, 25, o.EstimatedPrepMinutes())
	require.NotNil(t, o.EtaReadyAt())
	assert.Equal(t, now.Add(25*time.Minute), *o.EtaReadyAt())
	require.ErrorIs(t, o.ScheduleReady(-1, now), errs.ErrValueIsOutOfRange)
}

func TestOrder_SetNotes(t *testing.T) {
	o := newOrder(t, kernel.NewUUID(), 0)
	o.SetNotes("  no onions ", "vip")
	assert.Equal(t, "no onions", o.CustomerNotes())
	assert.Equal(t, "vip", o.InternalNotes())
}

func TestOrder_Renumber(t *testing.T) {
	o := newOrder(t, kernel.NewUUID(), 0)
	n := order.RandomNumberGenerator{}.Next(now.Add(24 * time.Hour))

	require.NoError(t, o.Renumber(n))
	assert.Equal(t, n, o.Number())

	restored, err := order.RestoreOrder(order.Snapshot{
		ID:           o.ID(),
		RestaurantID: o.RestaurantID(),
		Number:       o.Number(),
		Channel:      o.Channel(),
		Status:       o.Status(),
		CreatedAt:    now,
	})
	require.NoError(t, err)
	assert.Equal(t, order.ErrNumberIsImmutable, restored.Renumber(number(t)))
}

func TestRestoreOrder(t *testing.T) {
	restaurantID, couponID := kernel.NewUUID(), kernel.NewUUID()
	item := lineItem(t, kernel.NewUUID(), 2, 5000)
	completedAt := now.Add(time.Hour)

	base := order.Snapshot{
		ID:           kernel.NewUUID(),
		RestaurantID: restaurantID,
		Number:       number(t),
		Channel:      order.ChannelPhone,
		Status:       order.Completed,
		Items:        []*order.LineItem{item},
		CouponID:     &couponID,
		Subtotal:     kernel.NewMoney(10000),
		Discount:     kernel.NewMoney(1000),
		DeliveryFee:  kernel.NewMoney(500),
		Total:        kernel.NewMoney(9500),
		Timestamps:   order.Timestamps{PendingAt: &now, CompletedAt: &completedAt},
		CreatedAt:    now,
	}

	t.Run("valid", func(t *testing.T) {
		o, err := order.RestoreOrder(base)

		require.NoError(t, err)
		assert.Equal(t, order.Completed, o.Status())
		assert.True(t, o.IsCouponRedeemed())
		assert.Equal(t, int64(9500), o.Total().Amount())
		assert.Equal(t, completedAt, *o.Timestamps().At(order.Completed))
	})

	t.Run("inconsistent total", func(t *testing.T) {
		s := base
		s.Total = kernel.NewMoney(1)
		_, err := order.RestoreOrder(s)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("duplicate items", func(t *testing.T) {
		s := base
		s.Items = []*order.LineItem{item, item}
		_, err := order.RestoreOrder(s)
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("unknown status", func(t *testing.T) {
		s := base
		s.Status = order.Unknown
		_, err := order.RestoreOrder(s)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestDuplicateMenuItems(t *testing.T) {
	a, b := kernel.NewUUID(), kernel.NewUUID()

	assert.Empty(t, order.DuplicateMenuItems([]kernel.UUID{a, b}))
	assert.Equal(t, []string{a.String()}, order.DuplicateMenuItems([]kernel.UUID{a, b, a, a}))
}
