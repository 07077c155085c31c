package catalog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/skifa/recipescaler/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS packaged_goods (
	id SERIAL PRIMARY KEY,
	description TEXT NOT NULL,
	size TEXT NOT NULL,
	pack_size INTEGER NOT NULL DEFAULT 1,
	trade_price NUMERIC(12, 4) NOT NULL,
	product_code TEXT
);

CREATE TABLE IF NOT EXISTS fresh_produce (
	id SERIAL PRIMARY KEY,
	description TEXT NOT NULL,
	single_weight_kg DOUBLE PRECISION,
	each_price_pounds NUMERIC(12, 4),
	price_per_kg NUMERIC(12, 4)
);
`

// PostgresRepository serves the price lists from PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository connects to the database and ensures the catalog tables exist
func NewPostgresRepository(dataSourceName string) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create catalog tables: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// LoadPackaged returns the packaged goods in insertion order
func (r *PostgresRepository) LoadPackaged(ctx context.Context) ([]domain.CatalogEntry, error) {
	var entries []domain.CatalogEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT description, size, pack_size, trade_price, COALESCE(product_code, '') AS product_code
		FROM packaged_goods ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load packaged goods: %w", err)
	}
	return entries, nil
}

// LoadFresh returns the fresh produce entries in insertion order
func (r *PostgresRepository) LoadFresh(ctx context.Context) ([]domain.FreshProduceEntry, error) {
	var entries []domain.FreshProduceEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT description, single_weight_kg, each_price_pounds, price_per_kg
		FROM fresh_produce ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load fresh produce: %w", err)
	}
	return entries, nil
}

// Replace swaps both price lists for the given ones in a single transaction
func (r *PostgresRepository) Replace(ctx context.Context, packaged []domain.CatalogEntry, fresh []domain.FreshProduceEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `TRUNCATE packaged_goods, fresh_produce RESTART IDENTITY`); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}

	for _, entry := range packaged {
		_, err := tx.NamedExecContext(ctx,
			`INSERT INTO packaged_goods (description, size, pack_size, trade_price, product_code)
			VALUES (:description, :size, :pack_size, :trade_price, NULLIF(:product_code, ''))`, entry)
		if err != nil {
			return fmt.Errorf("failed to insert %q: %w", entry.Description, err)
		}
	}

	for _, entry := range fresh {
		_, err := tx.NamedExecContext(ctx,
			`INSERT INTO fresh_produce (description, single_weight_kg, each_price_pounds, price_per_kg)
			VALUES (:description, :single_weight_kg, :each_price_pounds, :price_per_kg)`, entry)
		if err != nil {
			return fmt.Errorf("failed to insert %q: %w", entry.Description, err)
		}
	}

	return tx.Commit()
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
