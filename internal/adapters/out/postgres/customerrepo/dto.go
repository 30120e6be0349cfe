// Package customerrepo reads and writes customers and their delivery addresses.
package customerrepo

import (
	"time"

	"orderengine/internal/core/domain/model/customer"
	"orderengine/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type CustomerDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:200;not null"`
	Phone     string    `gorm:"size:50"`
	CreatedAt time.Time
}

func (CustomerDTO) TableName() string {
	return "customers"
}

type AddressDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Line       string    `gorm:"size:300;not null"`
	CreatedAt  time.Time
}

func (AddressDTO) TableName() string {
	return "delivery_addresses"
}

func customerToDomain(dto CustomerDTO) (*customer.Customer, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}
	return customer.NewCustomer(id, dto.Name, dto.Phone)
}

func addressToDomain(dto AddressDTO) (*customer.Address, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromRaw(dto.CustomerID)
	if err != nil {
		return nil, err
	}
	return customer.NewAddress(id, customerID, dto.Line)
}
