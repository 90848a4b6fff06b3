// Package model defines the core domain models used throughout the application.
package model

import (
	"sort"
	"time"
)

// Transaction represents a single purchase by a user at a merchant.
type Transaction struct {
	Timestamp    time.Time
	MerchantName string
	Category     string
	ID           int
	UserID       int
	Amount       float64
}

// Transactions is a read-only collection loaded from a flat file.
type Transactions []Transaction

// Users returns the distinct user IDs present in the collection, ascending.
func (ts Transactions) Users() []int {
	seen := make(map[int]bool)
	users := make([]int, 0)
	for _, t := range ts {
		if !seen[t.UserID] {
			seen[t.UserID] = true
			users = append(users, t.UserID)
		}
	}
	sort.Ints(users)
	return users
}

// ForUser returns the subset of transactions belonging to the given user.
func (ts Transactions) ForUser(userID int) Transactions {
	var out Transactions
	for _, t := range ts {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}
