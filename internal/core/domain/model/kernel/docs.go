// Package kernel provides the value objects shared by every aggregate of the order
// engine.
//
// The package includes:
//   - UUID: identifiers for orders, coupons, catalog entries and customers
//   - Money: non-negative amounts in minor units with clamped arithmetic
//   - Quantity: item counts, always at least one
//   - Clock: the source of "now" for expiry checks and status timestamps
//
// All values are immutable and safe for concurrent use. Zero values of UUID and
// Quantity are invalid and fail Validate.
package kernel
