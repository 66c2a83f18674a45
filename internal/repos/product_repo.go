package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"productcatalog/internal/domain"
)

// ProductRepo stores products in SQLite. Prices are kept as decimal text and
// timestamps as RFC 3339 text so nothing is lost to float or driver rounding.
type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	Price     string         `db:"price"`
	CreatedAt string         `db:"created_at"`
	UpdatedAt sql.NullString `db:"updated_at"`
}

const selectProducts = `SELECT id, name, price, created_at, updated_at FROM products`

// Save inserts when p.ID is 0 and returns the record with its new id;
// otherwise it overwrites the row with that id, creating it if needed.
func (r *ProductRepo) Save(ctx context.Context, p domain.Product) (domain.Product, error) {
	var updated sql.NullString
	if p.UpdatedAt != nil {
		updated = sql.NullString{String: formatTime(*p.UpdatedAt), Valid: true}
	}

	if p.ID == 0 {
		res, err := r.db.ExecContext(ctx, `
		  INSERT INTO products(name, price, created_at, updated_at)
		  VALUES(?, ?, ?, ?)
		`, p.Name, p.Price.String(), formatTime(p.CreatedAt), updated)
		if err != nil {
			return domain.Product{}, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return domain.Product{}, err
		}
		p.ID = id
		return p, nil
	}

	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO products(id, name, price, created_at, updated_at)
	  VALUES(?, ?, ?, ?, ?)
	  ON CONFLICT(id) DO UPDATE SET
	    name = excluded.name,
	    price = excluded.price,
	    created_at = excluded.created_at,
	    updated_at = excluded.updated_at
	`, p.ID, p.Name, p.Price.String(), formatTime(p.CreatedAt), updated)
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id int64) (domain.Product, bool, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, selectProducts+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, false, nil
	}
	if err != nil {
		return domain.Product{}, false, err
	}
	p, err := row.product()
	if err != nil {
		return domain.Product{}, false, err
	}
	return p, true, nil
}

func (r *ProductRepo) FindAll(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, selectProducts+` ORDER BY id`); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.product()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok, `SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)`, id)
	return ok, err
}

func (r *ProductRepo) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	return err
}

func (r *ProductRepo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (row productRow) product() (domain.Product, error) {
	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %d: price %q: %w", row.ID, row.Price, err)
	}
	created, err := parseTime(row.CreatedAt)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %d: created_at: %w", row.ID, err)
	}
	p := domain.Product{ID: row.ID, Name: row.Name, Price: price, CreatedAt: created}
	if row.UpdatedAt.Valid && row.UpdatedAt.String != "" {
		updated, err := parseTime(row.UpdatedAt.String)
		if err != nil {
			return domain.Product{}, fmt.Errorf("product %d: updated_at: %w", row.ID, err)
		}
		p.UpdatedAt = &updated
	}
	return p, nil
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }
