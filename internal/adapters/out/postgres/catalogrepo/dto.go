// Package catalogrepo reads and writes restaurants and menu items with GORM.
package catalogrepo

import (
	"time"

	"orderengine/internal/core/domain/model/catalog"
	"orderengine/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type RestaurantDTO struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                 string    `gorm:"size:200;not null"`
	BaseDeliveryFeeMinor int64     `gorm:"not null"`
	DefaultPrepMinutes   int       `gorm:"not null"`
	IsActive             bool      `gorm:"not null"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (RestaurantDTO) TableName() string {
	return "restaurants"
}

type MenuItemDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	RestaurantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"size:200;not null"`
	PriceMinor     int64     `gorm:"not null"`
	AvgPrepMinutes int       `gorm:"not null"`
	IsActive       bool      `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (MenuItemDTO) TableName() string {
	return "menu_items"
}

func restaurantFromDomain(r *catalog.Restaurant) RestaurantDTO {
	return RestaurantDTO{
		ID:                   r.ID().Bytes(),
		Name:                 r.Name(),
		BaseDeliveryFeeMinor: r.BaseDeliveryFee().Amount(),
		DefaultPrepMinutes:   r.DefaultPrepMinutes(),
		IsActive:             r.IsActive(),
	}
}

func restaurantToDomain(dto RestaurantDTO) (*catalog.Restaurant, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}
	return catalog.RestoreRestaurant(id, dto.Name, kernel.NewMoney(dto.BaseDeliveryFeeMinor), dto.DefaultPrepMinutes, dto.IsActive)
}

func menuItemFromDomain(m *catalog.MenuItem) MenuItemDTO {
	return MenuItemDTO{
		ID:             m.ID().Bytes(),
		RestaurantID:   m.RestaurantID().Bytes(),
		Name:           m.Name(),
		PriceMinor:     m.Price().Amount(),
		AvgPrepMinutes: m.AvgPrepMinutes(),
		IsActive:       m.IsActive(),
	}
}

func menuItemToDomain(dto MenuItemDTO) (*catalog.MenuItem, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromRaw(dto.RestaurantID)
	if err != nil {
		return nil, err
	}
	return catalog.RestoreMenuItem(id, restaurantID, dto.Name, kernel.NewMoney(dto.PriceMinor), dto.AvgPrepMinutes, dto.IsActive)
}
