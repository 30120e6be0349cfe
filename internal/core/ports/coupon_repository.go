package ports

import (
	"context"
	"time"

	"orderengine/internal/core/domain/model/coupon"
	"orderengine/internal/core/domain/model/kernel"
)

type CouponRepository interface {
	Add(ctx context.Context, c *coupon.Coupon) error
	Get(ctx context.Context, id kernel.UUID) (*coupon.Coupon, error)
	GetByCode(ctx context.Context, code string) (*coupon.Coupon, error)
}

// CouponLedger is the only writer of coupon usage counters.
type CouponLedger interface {
	// TryIncrement adds one use to the coupon in a single conditional write that
	// re-checks scope, active flag, expiry against now and the usage cap. It
	// reports whether exactly one use was recorded. Under concurrency the counter
	// never exceeds the cap.
	TryIncrement(ctx context.Context, couponID, restaurantID kernel.UUID, now time.Time) (bool, error)
}
