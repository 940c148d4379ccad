package models

import "time"

// DateLayout is the on-disk and user-facing format of expense dates.
const DateLayout = "2006-01-02"

// Category is one of the fixed expense categories.
type Category string

const (
	Food      Category = "Food"
	Transport Category = "Transport"
	Rent      Category = "Rent"
	Bills     Category = "Bills"
	Others    Category = "Others"
)

// Categories lists every valid category in display order.
var Categories = []Category{Food, Transport, Rent, Bills, Others}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

// Expense represents a financial expense record owned by a single user.
type Expense struct {
	ID          int64     `json:"id"`
	Owner       string    `json:"owner"`
	Date        time.Time `json:"date"`
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
}

// DateString returns the expense date in DateLayout.
func (e Expense) DateString() string {
	return e.Date.Format(DateLayout)
}

// NewExpense holds the validated fields of an expense about to be stored.
type NewExpense struct {
	Date        time.Time
	Category    Category
	Description string
	Amount      float64
}

// ExpenseUpdate is a partial update. Nil fields keep their stored value.
type ExpenseUpdate struct {
	Date        *time.Time
	Category    *Category
	Description *string
	Amount      *float64
}

// IsEmpty reports whether the update changes nothing.
func (u ExpenseUpdate) IsEmpty() bool {
	return u.Date == nil && u.Category == nil && u.Description == nil && u.Amount == nil
}

// Apply returns e with the non-nil fields of u replaced.
func (u ExpenseUpdate) Apply(e Expense) Expense {
	if u.Date != nil {
		e.Date = *u.Date
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Amount != nil {
		e.Amount = *u.Amount
	}
	return e
}

// User represents a user account.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
