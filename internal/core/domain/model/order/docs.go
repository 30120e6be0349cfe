// Package order provides the Order aggregate root of the order engine: its line
// items, derived monetary totals, coupon attachment and status lifecycle.
//
// The package includes:
//   - Order: the aggregate root, the only writer of its monetary fields and status
//   - LineItem: an immutable quantity of one menu item at a captured unit price
//   - Status: the lifecycle state machine with an explicit transition table
//   - Timestamps: first-arrival instants, one per status
//   - Number and Channel: the human-readable order number and the intake channel
//
// Key business rules:
//   - total = max(subtotal + deliveryFee - discount, 0) after every mutation
//   - monetary fields are recomputed wholesale from the line items, never patched
//   - discount is zero unless a usable coupon of the same restaurant is attached
//   - a menu item appears at most once per order
//   - Pending -> InProgress -> Ready -> Completed, forward skips allowed, Cancelled
//     from any non-terminal state; Completed and Cancelled are terminal
//   - a status timestamp is written only on a genuine change and only if unset
package order
