// Package storage persists ledger state to SQLite. The state is small
// enough that SaveState rewrites it wholesale inside one transaction, which
// keeps the on-disk copy a faithful snapshot rather than a change log.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"finflow/internal/collab"
	"finflow/internal/core"
	"finflow/internal/log"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadState implements collab.Persistence. Rows come back in insertion
// order, which preserves the newest-first transaction ordering SaveState
// wrote.
func (r *SQLiteRepository) LoadState(ctx context.Context) (collab.State, error) {
	var state collab.State

	txs, err := r.loadTransactions(ctx)
	if err != nil {
		return collab.State{}, fmt.Errorf("load transactions: %w", err)
	}
	state.Transactions = txs

	profile, err := r.loadProfile(ctx)
	if err != nil {
		return collab.State{}, fmt.Errorf("load profile: %w", err)
	}
	state.Profile = profile

	goals, err := r.loadGoals(ctx)
	if err != nil {
		return collab.State{}, fmt.Errorf("load goals: %w", err)
	}
	state.Goals = goals

	r.logger.InfoContext(ctx, "State loaded from SQLite",
		log.FieldOperation, log.OpRead,
		"transactions", len(state.Transactions),
		"goals", len(state.Goals),
		"has_profile", state.Profile != nil)

	return state, nil
}

// SaveState implements collab.Persistence.
func (r *SQLiteRepository) SaveState(ctx context.Context, s collab.State) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"goal_contributors", "goals", "profile", "transactions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, t := range s.Transactions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, tx_type, amount_paise, category, description, tx_date, asset_type, friend_id, is_recurring)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, string(t.Type), t.Amount.Paise, t.Category, t.Description,
			t.Date.String(), string(t.AssetType), t.FriendID, boolToInt(t.IsRecurring))
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if s.Profile != nil {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profile (id, display_name, partner_name, monthly_income_paise, monthly_fixed_paise, savings_target_paise)
			VALUES (1, ?, ?, ?, ?, ?)`,
			s.Profile.DisplayName, s.Profile.PartnerName,
			s.Profile.MonthlyIncome.Paise, s.Profile.MonthlyFixed.Paise, s.Profile.SavingsTarget.Paise)
		if err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
	}

	for _, g := range s.Goals {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO goals (id, name, target_paise, current_paise, deadline, icon, color)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			g.ID, g.Name, g.TargetAmount.Paise, g.CurrentAmount.Paise,
			g.Deadline.String(), g.Icon, g.Color)
		if err != nil {
			return fmt.Errorf("insert goal %s: %w", g.ID, err)
		}
		for pos, name := range g.Contributors {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO goal_contributors (goal_id, position, name) VALUES (?, ?, ?)`,
				g.ID, pos, name)
			if err != nil {
				return fmt.Errorf("insert contributor for goal %s: %w", g.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	r.logger.InfoContext(ctx, "State saved to SQLite",
		log.FieldOperation, log.OpUpdate,
		"transactions", len(s.Transactions),
		"goals", len(s.Goals))

	return nil
}

func (r *SQLiteRepository) loadTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tx_type, amount_paise, category, description, tx_date, asset_type, friend_id, is_recurring
		FROM transactions ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var (
			t                   core.Transaction
			txType, date, asset string
			recurring           int
		)
		if err := rows.Scan(&t.ID, &txType, &t.Amount.Paise, &t.Category, &t.Description, &date, &asset, &t.FriendID, &recurring); err != nil {
			return nil, err
		}
		t.Type = core.TransactionType(txType)
		t.AssetType = core.AssetCategory(asset)
		t.IsRecurring = recurring != 0
		if t.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("transaction %s has bad date %q: %w", t.ID, date, err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (r *SQLiteRepository) loadProfile(ctx context.Context) (*core.CalibrationProfile, error) {
	var p core.CalibrationProfile
	err := r.db.QueryRowContext(ctx, `
		SELECT display_name, partner_name, monthly_income_paise, monthly_fixed_paise, savings_target_paise
		FROM profile WHERE id = 1`).
		Scan(&p.DisplayName, &p.PartnerName, &p.MonthlyIncome.Paise, &p.MonthlyFixed.Paise, &p.SavingsTarget.Paise)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteRepository) loadGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, target_paise, current_paise, deadline, icon, color
		FROM goals ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		var (
			g        core.Goal
			deadline string
		)
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount.Paise, &g.CurrentAmount.Paise, &deadline, &g.Icon, &g.Color); err != nil {
			return nil, err
		}
		if g.Deadline, err = core.ParseDate(deadline); err != nil {
			return nil, fmt.Errorf("goal %s has bad deadline %q: %w", g.ID, deadline, err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range goals {
		contributors, err := r.loadContributors(ctx, goals[i].ID)
		if err != nil {
			return nil, fmt.Errorf("load contributors for goal %s: %w", goals[i].ID, err)
		}
		goals[i].Contributors = contributors
	}
	return goals, nil
}

func (r *SQLiteRepository) loadContributors(ctx context.Context, goalID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name FROM goal_contributors WHERE goal_id = ? ORDER BY position ASC`, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
