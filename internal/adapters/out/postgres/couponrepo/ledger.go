package couponrepo

import (
	"context"
	"time"

	"orderengine/internal/adapters/out/postgres/pgerrs"
	"orderengine/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormCouponLedger implements ports.CouponLedger with one conditional UPDATE.
// Under READ COMMITTED, PostgreSQL re-evaluates the WHERE clause against the
// latest row version after waiting for a concurrent writer's lock, so two
// transactions can never both take the last use.
type GormCouponLedger struct {
	db *gorm.DB
}

func NewGormCouponLedger(db *gorm.DB) *GormCouponLedger {
	return &GormCouponLedger{db: db}
}

func (l *GormCouponLedger) TryIncrement(ctx context.Context, couponID, restaurantID kernel.UUID, now time.Time) (bool, error) {
	result := l.db.WithContext(ctx).
		Model(&CouponDTO{}).
		Where("id = ? AND restaurant_id = ? AND is_active", couponID.Bytes(), restaurantID.Bytes()).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Where("max_uses = 0 OR usage_count < max_uses").
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return false, pgerrs.Translate(result.Error)
	}

	return result.RowsAffected == 1, nil
}
