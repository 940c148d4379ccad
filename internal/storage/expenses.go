package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bytebank/internal/models"
)

const expenseColumns = "id, owner_username, date, category, description, amount"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (models.Expense, error) {
	var (
		e        models.Expense
		date     string
		category string
	)
	if err := row.Scan(&e.ID, &e.Owner, &date, &category, &e.Description, &e.Amount); err != nil {
		return models.Expense{}, err
	}
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return models.Expense{}, fmt.Errorf("expense %d has malformed date %q: %w", e.ID, date, err)
	}
	e.Date = d
	e.Category = models.Category(category)
	return e, nil
}

// AddExpense inserts a new expense for owner and returns the stored record.
func (db *DB) AddExpense(ctx context.Context, owner string, n models.NewExpense) (*models.Expense, error) {
	result, err := db.conn.ExecContext(ctx,
		"INSERT INTO expenses (owner_username, date, category, description, amount) VALUES (?, ?, ?, ?, ?)",
		owner, n.Date.Format(models.DateLayout), string(n.Category), n.Description, n.Amount,
	)
	if err != nil {
		return nil, storageErr("insert expense", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, storageErr("insert expense", err)
	}

	return &models.Expense{
		ID:          id,
		Owner:       owner,
		Date:        n.Date,
		Category:    n.Category,
		Description: n.Description,
		Amount:      n.Amount,
	}, nil
}

// GetExpense retrieves a single expense by ID, provided it belongs to owner.
func (db *DB) GetExpense(ctx context.Context, id int64, owner string) (*models.Expense, error) {
	return getExpense(ctx, db.conn, id, owner)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getExpense(ctx context.Context, q queryRower, id int64, owner string) (*models.Expense, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ? AND owner_username = ?",
		id, owner,
	)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{ID: id, Owner: owner}
	}
	if err != nil {
		return nil, storageErr("get expense", err)
	}
	return &e, nil
}

// UpdateExpense applies a partial update to an expense owned by owner.
// Fields left nil keep their stored values; an empty update changes nothing.
func (db *DB) UpdateExpense(ctx context.Context, id int64, owner string, u models.ExpenseUpdate) (*models.Expense, error) {
	var updated models.Expense
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getExpense(ctx, tx, id, owner)
		if err != nil {
			return err
		}
		updated = u.Apply(*current)
		if u.IsEmpty() {
			return nil
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE expenses SET date = ?, category = ?, description = ?, amount = ? WHERE id = ? AND owner_username = ?",
			updated.DateString(), string(updated.Category), updated.Description, updated.Amount, id, owner,
		)
		if err != nil {
			return storageErr("update expense", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteExpense permanently removes an expense owned by owner.
func (db *DB) DeleteExpense(ctx context.Context, id int64, owner string) error {
	result, err := db.conn.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND owner_username = ?",
		id, owner,
	)
	if err != nil {
		return storageErr("delete expense", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storageErr("delete expense", err)
	}
	if n == 0 {
		return &models.NotFoundError{ID: id, Owner: owner}
	}
	return nil
}

// ListExpenses retrieves all expenses of owner, most recent first.
func (db *DB) ListExpenses(ctx context.Context, owner string) ([]models.Expense, error) {
	return db.queryExpenses(ctx, "list expenses",
		"SELECT "+expenseColumns+" FROM expenses WHERE owner_username = ? ORDER BY date DESC, id DESC",
		owner,
	)
}

// FilterByCategory retrieves the expenses of owner in category c, most recent first.
func (db *DB) FilterByCategory(ctx context.Context, owner string, c models.Category) ([]models.Expense, error) {
	return db.queryExpenses(ctx, "filter by category",
		"SELECT "+expenseColumns+" FROM expenses WHERE owner_username = ? AND category = ? ORDER BY date DESC, id DESC",
		owner, string(c),
	)
}

// FilterByDate retrieves the expenses of owner dated exactly date, newest id first.
func (db *DB) FilterByDate(ctx context.Context, owner string, date time.Time) ([]models.Expense, error) {
	return db.queryExpenses(ctx, "filter by date",
		"SELECT "+expenseColumns+" FROM expenses WHERE owner_username = ? AND date = ? ORDER BY id DESC",
		owner, date.Format(models.DateLayout),
	)
}

func (db *DB) queryExpenses(ctx context.Context, op, query string, args ...any) ([]models.Expense, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return expenses, nil
}
