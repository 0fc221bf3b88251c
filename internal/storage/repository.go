// Package storage persists expenses, budgets, goals, and alert
// notifications in SQLite. Every operation is a single-document read or
// write scoped to the owning user; there are no multi-step transactions,
// and none are needed since derived data is recomputed on read.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"spendtrack/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record is absent or owned by another
// user. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("record not found")

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// applies migrations. Use ":memory:" for tests.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// A single connection sidesteps table-lock contention between the
	// migration runner and regular queries, and keeps :memory: databases
	// from silently forking per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- Expenses ---

// CreateExpense inserts a new expense, assigning its ID.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e *core.Expense) error {
	e.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, title, amount_cents, category, description, expense_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Title, e.Amount.Cents, string(e.Category), e.Description, e.Date.Time)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"title", e.Title,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return nil
}

// GetExpense returns the expense if it exists and belongs to userID.
func (r *SQLiteRepository) GetExpense(ctx context.Context, userID, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, amount_cents, category, description, expense_date
		 FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, ErrNotFound
		}
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// UpdateExpense replaces all mutable fields of an owned expense.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET title = ?, amount_cents = ?, category = ?, description = ?, expense_date = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		e.Title, e.Amount.Cents, string(e.Category), e.Description, e.Date.Time, e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res)
}

// DeleteExpense removes an owned expense. Hard delete: no soft-delete, no
// versioning.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res)
}

// ListExpenses returns the user's expenses matching the filter, newest
// first. Date bounds are inclusive at both ends and compared against the
// stored expense date.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID string, f core.ExpenseFilter) ([]core.Expense, error) {
	query := `SELECT id, user_id, title, amount_cents, category, description, expense_date
	          FROM expenses WHERE user_id = ?`
	args := []any{userID}

	if f.Category != "" && f.Category != "All" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if !f.Start.IsZero() {
		query += ` AND expense_date >= ?`
		args = append(args, f.Start.Time)
	}
	if !f.End.IsZero() {
		query += ` AND expense_date <= ?`
		args = append(args, f.End.Time)
	}
	query += ` ORDER BY expense_date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// ListExpensesSince returns the user's expenses with date >= since,
// the read used for current-month budget evaluation.
func (r *SQLiteRepository) ListExpensesSince(ctx context.Context, userID string, since time.Time) ([]core.Expense, error) {
	return r.ListExpenses(ctx, userID, core.ExpenseFilter{Start: core.Date{Time: since}})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e        core.Expense
		category string
		date     time.Time
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Amount.Cents, &category, &e.Description, &date); err != nil {
		return core.Expense{}, err
	}
	e.Category = core.Category(category)
	e.Date = core.Date{Time: date.Local()}
	return e, nil
}

// --- Budgets ---

// UpsertBudget creates or overwrites the budget for (user, category). The
// primary key makes this last-write-wins with no history kept.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, limit_cents, threshold)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, category) DO UPDATE SET
		   limit_cents = excluded.limit_cents,
		   threshold = excluded.threshold,
		   updated_at = CURRENT_TIMESTAMP`,
		b.UserID, string(b.Category), b.Limit.Cents, b.Threshold)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget set",
		"category", b.Category,
		"limit_cents", b.Limit.Cents,
		"threshold", b.Threshold)
	return nil
}

// GetBudget returns the budget row for (user, category), if any.
func (r *SQLiteRepository) GetBudget(ctx context.Context, userID string, category core.Category) (core.Budget, error) {
	var (
		b   core.Budget
		cat string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, category, limit_cents, threshold FROM budgets
		 WHERE user_id = ? AND category = ?`, userID, string(category)).
		Scan(&b.UserID, &cat, &b.Limit.Cents, &b.Threshold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Budget{}, ErrNotFound
		}
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	b.Category = core.Category(cat)
	return b, nil
}

// ListBudgets returns all budget rows for the user.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, category, limit_cents, threshold FROM budgets
		 WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var (
			b   core.Budget
			cat string
		)
		if err := rows.Scan(&b.UserID, &cat, &b.Limit.Cents, &b.Threshold); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Category = core.Category(cat)
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// --- Goals ---

// CreateGoal inserts a new goal, assigning its ID and creation time.
func (r *SQLiteRepository) CreateGoal(ctx context.Context, g *core.Goal) error {
	g.ID = uuid.NewString()
	g.CreatedAt = time.Now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, title, target_cents, current_cents, deadline,
		                    category, priority, description, is_completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Title, g.TargetAmount.Cents, g.CurrentAmount.Cents, g.Deadline.Time,
		string(g.Category), string(g.Priority), g.Description, g.IsCompleted, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

// GetGoal returns the goal if it exists and belongs to userID.
func (r *SQLiteRepository) GetGoal(ctx context.Context, userID, id string) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, target_cents, current_cents, deadline, category,
		        priority, description, is_completed, completed_at, created_at
		 FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	g, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Goal{}, ErrNotFound
		}
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

// ListGoals returns the user's goals, newest first.
func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, target_cents, current_cents, deadline, category,
		        priority, description, is_completed, completed_at, created_at
		 FROM goals WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// UpdateGoal replaces the mutable fields of an owned goal.
func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	var completedAt any
	if g.CompletedAt != nil {
		completedAt = *g.CompletedAt
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals
		 SET title = ?, target_cents = ?, current_cents = ?, deadline = ?, category = ?,
		     priority = ?, description = ?, is_completed = ?, completed_at = ?
		 WHERE id = ? AND user_id = ?`,
		g.Title, g.TargetAmount.Cents, g.CurrentAmount.Cents, g.Deadline.Time, string(g.Category),
		string(g.Priority), g.Description, g.IsCompleted, completedAt, g.ID, g.UserID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res)
}

// DeleteGoal removes an owned goal.
func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res)
}

func scanGoal(row rowScanner) (core.Goal, error) {
	var (
		g           core.Goal
		category    string
		priority    string
		deadline    time.Time
		completedAt sql.NullTime
	)
	if err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.TargetAmount.Cents, &g.CurrentAmount.Cents,
		&deadline, &category, &priority, &g.Description, &g.IsCompleted, &completedAt, &g.CreatedAt); err != nil {
		return core.Goal{}, err
	}
	g.Deadline = core.Date{Time: deadline.Local()}
	g.Category = core.GoalCategory(category)
	g.Priority = core.Priority(priority)
	if completedAt.Valid {
		t := completedAt.Time
		g.CompletedAt = &t
	}
	return g, nil
}

// --- Notifications ---

// CreateNotification records an alert notification. The (user, category,
// month) unique constraint deduplicates repeat crossings within a month;
// duplicates report created=false without error.
func (r *SQLiteRepository) CreateNotification(ctx context.Context, n *core.Notification) (bool, error) {
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, category, month_key, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, category, month_key) DO NOTHING`,
		n.ID, n.UserID, string(n.Category), n.MonthKey, n.Message, n.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("insert notification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListNotifications returns the user's alert notifications, newest first.
func (r *SQLiteRepository) ListNotifications(ctx context.Context, userID string) ([]core.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category, month_key, message, created_at
		 FROM notifications WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []core.Notification
	for rows.Next() {
		var (
			n   core.Notification
			cat string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &cat, &n.MonthKey, &n.Message, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Category = core.Category(cat)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// ListBudgetUsers returns the distinct users that have at least one budget
// row, used by the worker's periodic sweep.
func (r *SQLiteRepository) ListBudgetUsers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM budgets`)
	if err != nil {
		return nil, fmt.Errorf("list budget users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
