// Package tracker is the entry point for presentation code: it validates raw
// input, scopes every call to the authenticated owner, and delegates to the
// store, the aggregations and the exporter.
package tracker

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"bytebank/internal/export"
	"bytebank/internal/logger"
	"bytebank/internal/models"
	"bytebank/internal/summary"
	"bytebank/internal/validate"

	"github.com/sirupsen/logrus"
)

// Store is the persistence contract the tracker needs.
type Store interface {
	AddExpense(ctx context.Context, owner string, n models.NewExpense) (*models.Expense, error)
	GetExpense(ctx context.Context, id int64, owner string) (*models.Expense, error)
	UpdateExpense(ctx context.Context, id int64, owner string, u models.ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(ctx context.Context, id int64, owner string) error
	ListExpenses(ctx context.Context, owner string) ([]models.Expense, error)
	FilterByCategory(ctx context.Context, owner string, c models.Category) ([]models.Expense, error)
	FilterByDate(ctx context.Context, owner string, date time.Time) ([]models.Expense, error)
	CreateUser(ctx context.Context, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// ExpenseInput is an expense as typed by the user. An empty Date means today.
type ExpenseInput struct {
	Date        string
	Category    string
	Description string
	Amount      string
}

// UpdateInput carries the raw replacement values. Nil fields are left unchanged.
type UpdateInput struct {
	Date        *string
	Category    *string
	Description *string
	Amount      *string
}

// Tracker holds dependencies for expense operations.
type Tracker struct {
	store Store
	log   logrus.FieldLogger
	now   func() time.Time
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now, which decides what "today" is.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New creates a new Tracker instance.
func New(store Store, log logrus.FieldLogger, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		log:   log.WithField(logger.FieldComponent, "tracker"),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Register creates a user account.
func (t *Tracker) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: username and password are required", models.ErrInvalidInput)
	}
	u, err := t.store.CreateUser(ctx, username, password)
	if err != nil {
		return nil, err
	}
	t.log.WithField(logger.FieldOwner, u.Username).Info("user registered")
	return u, nil
}

// Login checks credentials and returns the authenticated user.
func (t *Tracker) Login(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", models.ErrInvalidInput)
	}
	u, err := t.store.Authenticate(ctx, username, password)
	if err != nil {
		t.log.WithField(logger.FieldOwner, username).WithError(err).Warn("login failed")
		return nil, err
	}
	t.log.WithField(logger.FieldOwner, u.Username).Info("user logged in")
	return u, nil
}

// ParseExpense validates every field of in without touching storage.
func (t *Tracker) ParseExpense(in ExpenseInput) (models.NewExpense, error) {
	d, err := validate.OptionalDate(in.Date)
	if err != nil {
		return models.NewExpense{}, err
	}
	c, err := validate.Category(in.Category)
	if err != nil {
		return models.NewExpense{}, err
	}
	amount, err := validate.Amount(in.Amount)
	if err != nil {
		return models.NewExpense{}, err
	}
	return models.NewExpense{
		Date:        validate.ResolveDate(d, t.now()),
		Category:    c,
		Description: strings.TrimSpace(in.Description),
		Amount:      amount,
	}, nil
}

// AddExpense validates in and stores it for owner.
func (t *Tracker) AddExpense(ctx context.Context, owner string, in ExpenseInput) (*models.Expense, error) {
	n, err := t.ParseExpense(in)
	if err != nil {
		return nil, err
	}
	return t.Add(ctx, owner, n)
}

// Add stores an already validated expense for owner.
func (t *Tracker) Add(ctx context.Context, owner string, n models.NewExpense) (*models.Expense, error) {
	e, err := t.store.AddExpense(ctx, owner, n)
	if err != nil {
		t.opLog(owner, "add", 0).WithError(err).Error("add expense failed")
		return nil, err
	}
	t.opLog(owner, "add", e.ID).WithFields(logrus.Fields{
		"category": e.Category,
		"amount":   e.Amount,
		"date":     e.DateString(),
	}).Info("expense added")
	return e, nil
}

// GetExpense returns one expense of owner.
func (t *Tracker) GetExpense(ctx context.Context, owner string, id int64) (*models.Expense, error) {
	return t.store.GetExpense(ctx, id, owner)
}

// ParseUpdate validates the supplied fields of in.
func ParseUpdate(in UpdateInput) (models.ExpenseUpdate, error) {
	var u models.ExpenseUpdate
	if in.Date != nil {
		d, err := validate.Date(*in.Date)
		if err != nil {
			return u, err
		}
		u.Date = &d
	}
	if in.Category != nil {
		c, err := validate.Category(*in.Category)
		if err != nil {
			return u, err
		}
		u.Category = &c
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		u.Description = &desc
	}
	if in.Amount != nil {
		a, err := validate.Amount(*in.Amount)
		if err != nil {
			return u, err
		}
		u.Amount = &a
	}
	return u, nil
}

// UpdateExpense validates in and applies it to expense id of owner.
func (t *Tracker) UpdateExpense(ctx context.Context, owner string, id int64, in UpdateInput) (*models.Expense, error) {
	u, err := ParseUpdate(in)
	if err != nil {
		return nil, err
	}
	return t.Update(ctx, owner, id, u)
}

// Update applies an already validated update.
func (t *Tracker) Update(ctx context.Context, owner string, id int64, u models.ExpenseUpdate) (*models.Expense, error) {
	e, err := t.store.UpdateExpense(ctx, id, owner, u)
	if err != nil {
		t.opLog(owner, "update", id).WithError(err).Warn("update expense failed")
		return nil, err
	}
	t.opLog(owner, "update", id).WithField("noop", u.IsEmpty()).Info("expense updated")
	return e, nil
}

// DeleteExpense removes expense id of owner.
func (t *Tracker) DeleteExpense(ctx context.Context, owner string, id int64) error {
	if err := t.store.DeleteExpense(ctx, id, owner); err != nil {
		t.opLog(owner, "delete", id).WithError(err).Warn("delete expense failed")
		return err
	}
	t.opLog(owner, "delete", id).Info("expense deleted")
	return nil
}

// ListExpenses returns all expenses of owner, most recent first.
func (t *Tracker) ListExpenses(ctx context.Context, owner string) ([]models.Expense, error) {
	return t.store.ListExpenses(ctx, owner)
}

// FilterByCategory matches category case-insensitively. Text naming no known
// category matches nothing.
func (t *Tracker) FilterByCategory(ctx context.Context, owner, category string) ([]models.Expense, error) {
	c := models.Category(validate.TitleCase(strings.TrimSpace(category)))
	if !c.Valid() {
		return []models.Expense{}, nil
	}
	return t.store.FilterByCategory(ctx, owner, c)
}

// FilterByDate returns the expenses of owner on exactly date.
func (t *Tracker) FilterByDate(ctx context.Context, owner, date string) ([]models.Expense, error) {
	d, err := validate.Date(date)
	if err != nil {
		return nil, err
	}
	return t.store.FilterByDate(ctx, owner, d)
}

// Total returns the sum of every amount owner recorded.
func (t *Tracker) Total(ctx context.Context, owner string) (float64, error) {
	expenses, err := t.store.ListExpenses(ctx, owner)
	if err != nil {
		return 0, err
	}
	return summary.Total(expenses), nil
}

// ByCategory returns owner's totals per category.
func (t *Tracker) ByCategory(ctx context.Context, owner string) (map[models.Category]float64, error) {
	expenses, err := t.store.ListExpenses(ctx, owner)
	if err != nil {
		return nil, err
	}
	return summary.ByCategory(expenses), nil
}

// ByDate returns owner's totals per day, oldest first.
func (t *Tracker) ByDate(ctx context.Context, owner string) ([]summary.DateTotal, error) {
	expenses, err := t.store.ListExpenses(ctx, owner)
	if err != nil {
		return nil, err
	}
	return summary.ByDate(expenses), nil
}

// Breakdown returns owner's per-category totals with shares, in display order.
func (t *Tracker) Breakdown(ctx context.Context, owner string) ([]summary.CategoryTotal, error) {
	expenses, err := t.store.ListExpenses(ctx, owner)
	if err != nil {
		return nil, err
	}
	return summary.Breakdown(expenses), nil
}

// ExportCSV writes all of owner's expenses to w and returns how many were written.
func (t *Tracker) ExportCSV(ctx context.Context, owner string, w io.Writer) (int, error) {
	expenses, err := t.store.ListExpenses(ctx, owner)
	if err != nil {
		return 0, err
	}
	if err := export.WriteCSV(w, expenses); err != nil {
		return 0, fmt.Errorf("export csv: %w", err)
	}
	t.opLog(owner, "export", 0).WithField("rows", len(expenses)).Info("expenses exported")
	return len(expenses), nil
}

func (t *Tracker) opLog(owner, op string, id int64) logrus.FieldLogger {
	l := t.log.WithFields(logrus.Fields{
		logger.FieldOwner:     owner,
		logger.FieldOperation: op,
	})
	if id != 0 {
		l = l.WithField(logger.FieldExpenseID, id)
	}
	return l
}
