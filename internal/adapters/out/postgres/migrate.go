package postgres

import (
	"fmt"

	"orderengine/internal/adapters/out/postgres/catalogrepo"
	"orderengine/internal/adapters/out/postgres/couponrepo"
	"orderengine/internal/adapters/out/postgres/customerrepo"
	"orderengine/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Models lists every persisted table, in dependency order.
func Models() []any {
	return []any{
		&catalogrepo.RestaurantDTO{},
		&catalogrepo.MenuItemDTO{},
		&customerrepo.CustomerDTO{},
		&customerrepo.AddressDTO{},
		&couponrepo.CouponDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
	}
}

// Migrate creates or alters the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// TableNames lists the tables Migrate manages, for truncation in tests.
func TableNames() []string {
	return []string{
		"order_items",
		"orders",
		"coupons",
		"delivery_addresses",
		"customers",
		"menu_items",
		"restaurants",
	}
}
