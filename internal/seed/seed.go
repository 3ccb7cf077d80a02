// Package seed loads reference data and the admin account, and wipes the
// database for local resets.
package seed

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	database "github.com/gustavoisensee/MyFinances/db"
	applog "github.com/gustavoisensee/MyFinances/internal/log"
	"github.com/gustavoisensee/MyFinances/internal/user"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Gender struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

type Defaults struct {
	Genders    []Gender `yaml:"genders"`
	Years      []int    `yaml:"years"`
	Categories []string `yaml:"categories"`
}

// Admin describes the account stored under the configured admin id.
type Admin struct {
	ID        int64
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func LoadDefaults() (*Defaults, error) {
	return ParseDefaults(defaultsYAML)
}

func ParseDefaults(data []byte) (*Defaults, error) {
	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse seed defaults: %w", err)
	}
	seen := map[string]bool{}
	for _, name := range d.Categories {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil, fmt.Errorf("seed defaults: empty category name")
		}
		if seen[key] {
			return nil, fmt.Errorf("seed defaults: duplicate category %q", name)
		}
		seen[key] = true
	}
	return &d, nil
}

type Seeder struct {
	db     *sql.DB
	tx     *database.TxManager
	logger *applog.Logger
}

func NewSeeder(db *sql.DB, logger *applog.Logger) *Seeder {
	return &Seeder{db: db, tx: database.NewTxManager(db), logger: logger.WithComponent(applog.ComponentSeed)}
}

// Seed inserts the defaults and upserts the admin in one transaction. It can
// run repeatedly.
func (s *Seeder) Seed(ctx context.Context, d *Defaults, admin Admin) error {
	hash, err := user.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		conn := database.Conn(ctx, s.db)

		for _, g := range d.Genders {
			if _, err := conn.ExecContext(ctx,
				`INSERT INTO genders (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, g.ID, g.Name); err != nil {
				return fmt.Errorf("seed gender %d: %w", g.ID, err)
			}
		}
		s.logger.InfoContext(ctx, "genders seeded", "count", len(d.Genders))

		for _, y := range d.Years {
			if _, err := conn.ExecContext(ctx,
				`INSERT INTO years (value) VALUES ($1) ON CONFLICT (value) DO NOTHING`, y); err != nil {
				return fmt.Errorf("seed year %d: %w", y, err)
			}
		}
		s.logger.InfoContext(ctx, "years seeded", "count", len(d.Years))

		email := strings.ToLower(strings.TrimSpace(admin.Email))
		if _, err := conn.ExecContext(ctx, `
			INSERT INTO users (id, email, password, first_name, last_name, gender_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE
			SET email = EXCLUDED.email, password = EXCLUDED.password,
			    first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name, updated_at = NOW()`,
			admin.ID, email, hash, admin.FirstName, admin.LastName, user.DefaultGenderID); err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		// explicit ids leave the sequence behind
		if _, err := conn.ExecContext(ctx,
			`SELECT setval(pg_get_serial_sequence('users', 'id'), GREATEST((SELECT MAX(id) FROM users), 1))`); err != nil {
			return fmt.Errorf("advance users sequence: %w", err)
		}
		s.logger.InfoContext(ctx, "admin user seeded", applog.FieldUserID, admin.ID)

		for _, name := range d.Categories {
			if _, err := conn.ExecContext(ctx,
				`INSERT INTO categories (name, user_id) VALUES ($1, NULL) ON CONFLICT DO NOTHING`, name); err != nil {
				return fmt.Errorf("seed category %q: %w", name, err)
			}
		}
		s.logger.InfoContext(ctx, "default categories seeded", "count", len(d.Categories))
		return nil
	})
}

// cleanOrder lists tables with dependents first.
var cleanOrder = []string{
	"expenses",
	"budgets",
	"incomes",
	"months",
	"categories",
	"years",
	"access_tokens",
	"users",
}

// Clean deletes every row except genders and reports the count per table.
func (s *Seeder) Clean(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(cleanOrder))
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		conn := database.Conn(ctx, s.db)
		for _, table := range cleanOrder {
			res, err := conn.ExecContext(ctx, "DELETE FROM "+table)
			if err != nil {
				return fmt.Errorf("clean %s: %w", table, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			counts[table] = n
			s.logger.InfoContext(ctx, "table cleaned", "table", table, "deleted", n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
