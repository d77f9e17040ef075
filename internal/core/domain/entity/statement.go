package entity

import "time"

// Statement is a consistent snapshot: the balance and the recent
// transactions reflect a single point in time, stamped by the store.
type Statement struct {
	Balance      int64
	Limit        int64
	IssuedAt     time.Time
	Transactions []Transaction
}
