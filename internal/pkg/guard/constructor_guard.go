package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate on a zero-value guard when no
// specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as built by its constructor. Commands and queries
// embed one so handlers can reject zero-value structs:
//
//	type GetOrderQuery struct {
//	    orderID uuid.UUID
//	    guard   guard.ConstructorGuard
//	}
//
//	func (q GetOrderQuery) Validate() error {
//	    return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard, validationError otherwise
// (ErrDefaultConstructorGuard when validationError is nil).
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
