// Package coupon models restaurant-scoped discount coupons and the pure rule that
// turns a coupon and a subtotal into a discount amount.
//
// A coupon is usable when it is active, not expired and under its usage cap
// (a cap of zero means unlimited). The usage counter is read-only here; it is
// advanced only by the coupon usage ledger in the persistence layer, inside the
// order creation transaction.
package coupon
