package catalog

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	seedConnectTimeout = 5 * time.Second
	seedQueryTimeout   = 10 * time.Second
)

const seedQuery = `
	SELECT id, name, description, price, category, image, discount,
	       is_top_selling, is_featured, aisle, section, store_stock, warehouse_stock
	FROM products
	ORDER BY id ASC
`

// LoadPostgresSeed reads the products table once. The store never writes back;
// the database is only a richer alternative to the JSON seed.
func LoadPostgresSeed(ctx context.Context, dsn string) ([]Product, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse seed dsn: %w", err)
	}
	cfg.MaxConns = 1
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, seedConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect seed db: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(connectCtx); err != nil {
		return nil, fmt.Errorf("ping seed db: %w", err)
	}

	queryCtx, cancelQuery := context.WithTimeout(ctx, seedQueryTimeout)
	defer cancelQuery()

	rows, err := pool.Query(queryCtx, seedQuery)
	if err != nil {
		return nil, fmt.Errorf("query seed products: %w", err)
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("scan seed products: %w", err)
	}

	if err := checkSeed(products); err != nil {
		return nil, err
	}
	return products, nil
}

func scanProduct(row pgx.CollectableRow) (Product, error) {
	var (
		p           Product
		description *string
	)
	err := row.Scan(
		&p.ID, &p.Name, &description, &p.Price, &p.Category, &p.Image, &p.Discount,
		&p.IsTopSelling, &p.IsFeatured,
		&p.Location.Aisle, &p.Location.Section,
		&p.Inventory.Store, &p.Inventory.Warehouse,
	)
	if description != nil {
		p.Description = *description
	}
	return p, err
}
