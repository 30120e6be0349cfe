package customerrepo

import (
	"context"
	"errors"

	"orderengine/internal/adapters/out/postgres/pgerrs"
	"orderengine/internal/core/domain/model/customer"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCustomerRepository implements ports.CustomerRepository using GORM.
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) AddCustomer(ctx context.Context, c *customer.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dto := CustomerDTO{ID: c.ID().Bytes(), Name: c.Name(), Phone: c.Phone()}
	return pgerrs.Translate(r.db.WithContext(ctx).Create(&dto).Error)
}

func (r *GormCustomerRepository) AddAddress(ctx context.Context, a *customer.Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	dto := AddressDTO{ID: a.ID().Bytes(), CustomerID: a.CustomerID().Bytes(), Line: a.Line()}
	return pgerrs.Translate(r.db.WithContext(ctx).Create(&dto).Error)
}

func (r *GormCustomerRepository) GetCustomer(ctx context.Context, id kernel.UUID) (*customer.Customer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CustomerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("customer", id.String())
		}
		return nil, pgerrs.Translate(err)
	}

	return customerToDomain(dto)
}

func (r *GormCustomerRepository) GetAddress(ctx context.Context, id kernel.UUID) (*customer.Address, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AddressDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("deliveryAddress", id.String())
		}
		return nil, pgerrs.Translate(err)
	}

	return addressToDomain(dto)
}
