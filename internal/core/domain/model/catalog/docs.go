// Package catalog holds the restaurant and menu item read by order creation: the
// restaurant supplies the base delivery fee and default preparation time, menu
// items supply the unit price snapshot and their own preparation estimate.
package catalog
