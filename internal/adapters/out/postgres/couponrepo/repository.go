package couponrepo

import (
	"context"
	"errors"
	"strings"

	"orderengine/internal/adapters/out/postgres/pgerrs"
	"orderengine/internal/core/domain/model/coupon"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCouponRepository implements ports.CouponRepository using GORM.
type GormCouponRepository struct {
	db *gorm.DB
}

func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

func (r *GormCouponRepository) Add(ctx context.Context, c *coupon.Coupon) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := fromDomain(c)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerrs.Translate(err)
	}
	return nil
}

func (r *GormCouponRepository) Get(ctx context.Context, id kernel.UUID) (*coupon.Coupon, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CouponDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("coupon", id.String())
		}
		return nil, pgerrs.Translate(err)
	}

	return toDomain(dto)
}

func (r *GormCouponRepository) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errs.NewValueIsRequiredError("coupon code")
	}

	var dto CouponDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("coupon", code)
		}
		return nil, pgerrs.Translate(err)
	}

	return toDomain(dto)
}
