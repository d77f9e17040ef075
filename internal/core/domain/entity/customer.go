package entity

import "errors"

// The customer set is fixed and seeded by migration; ids outside this range
// never exist, so existence can be checked without touching storage.
const seededCustomers = 5

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrLimitExceeded    = errors.New("transaction would exceed the credit limit")
)

// CustomerAccount is the current committed state of a customer's balance.
// Invariant: Balance + Limit >= 0 at every committed state.
type CustomerAccount struct {
	ID      int
	Limit   int64
	Balance int64
}

func KnownCustomer(id int) bool {
	return id >= 1 && id <= seededCustomers
}
