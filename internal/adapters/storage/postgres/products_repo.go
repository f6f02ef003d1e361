package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-snack-assistant/internal/domain/products"
)

type ProductsRepo struct {
	db *sql.DB
}

func NewProductsRepo(db *sql.DB) *ProductsRepo {
	return &ProductsRepo{db: db}
}

const productColumns = `id, name, price, stock, category, image_ref, created_at`

func (r *ProductsRepo) Create(ctx context.Context, p products.Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		p.ID,
		p.Name,
		p.Price,
		p.Stock,
		p.Category,
		p.ImageRef,
		p.CreatedAt,
	)
	return err
}

func (r *ProductsRepo) GetByID(ctx context.Context, id string) (products.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return products.Product{}, products.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return products.Product{}, products.ErrNotFound
		}
		return products.Product{}, err
	}
	return p, nil
}

func (r *ProductsRepo) List(ctx context.Context) ([]products.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]products.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(s rowScanner) (products.Product, error) {
	var p products.Product
	var category, imageRef sql.NullString
	if err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.Stock,
		&category,
		&imageRef,
		&p.CreatedAt,
	); err != nil {
		return products.Product{}, err
	}
	p.Category = category.String
	p.ImageRef = imageRef.String
	return p, nil
}
