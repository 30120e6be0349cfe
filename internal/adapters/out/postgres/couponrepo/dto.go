// Package couponrepo persists coupons and implements the coupon usage ledger.
package couponrepo

import (
	"time"

	"orderengine/internal/core/domain/model/coupon"
	"orderengine/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CouponDTO is the row of the coupons table. The check constraint keeps the
// usage counter under the cap even if a writer bypasses the ledger.
type CouponDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RestaurantID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Code           string     `gorm:"size:50;not null;uniqueIndex:idx_coupons_code"`
	Mode           string     `gorm:"size:10;not null"`
	PercentOff     int        `gorm:"not null;check:chk_coupons_percent_off,percent_off BETWEEN 0 AND 100"`
	AmountOffMinor int64      `gorm:"not null"`
	MaxUses        int        `gorm:"not null"`
	UsageCount     int        `gorm:"not null;check:chk_coupons_usage_cap,max_uses = 0 OR usage_count <= max_uses"`
	ExpiresAt      *time.Time `gorm:"index"`
	IsActive       bool       `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (CouponDTO) TableName() string {
	return "coupons"
}

func fromDomain(c *coupon.Coupon) CouponDTO {
	return CouponDTO{
		ID:             c.ID().Bytes(),
		RestaurantID:   c.RestaurantID().Bytes(),
		Code:           c.Code(),
		Mode:           c.Mode().String(),
		PercentOff:     c.PercentOff(),
		AmountOffMinor: c.AmountOff().Amount(),
		MaxUses:        c.MaxUses(),
		UsageCount:     c.UsageCount(),
		ExpiresAt:      c.ExpiresAt(),
		IsActive:       c.IsActive(),
	}
}

func toDomain(dto CouponDTO) (*coupon.Coupon, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromRaw(dto.RestaurantID)
	if err != nil {
		return nil, err
	}
	mode, err := coupon.ParseDiscountMode(dto.Mode)
	if err != nil {
		return nil, err
	}

	return coupon.RestoreCoupon(
		id,
		restaurantID,
		dto.Code,
		mode,
		dto.PercentOff,
		kernel.NewMoney(dto.AmountOffMinor),
		dto.MaxUses,
		dto.UsageCount,
		dto.ExpiresAt,
		dto.IsActive,
	)
}
