package product

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const productColumns = `"productId", name, description, price, stock, image, "createdAt", "updatedAt"`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Product, error) {
	rows, err := r.db.Query(`SELECT ` + productColumns + ` FROM products ORDER BY "productId"`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE "productId" = $1`, id))
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

// ListByIDs returns products matching the given ids, ordered the same way as
// the ids argument. An empty slice leads to an immediate empty result.
func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	rows, err := r.db.Query(`SELECT `+productColumns+`
		FROM products
		WHERE "productId" = ANY($1::int[])
		ORDER BY array_position($1::int[], "productId")`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	err := r.db.QueryRow(`INSERT INTO products (name, description, price, stock, image, "createdAt", "updatedAt")
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING "productId"`,
		p.Name, p.Description, p.Price, p.Stock, p.Image, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	res, err := r.db.Exec(`UPDATE products SET name = $1, description = $2, price = $3, stock = $4, image = $5, "updatedAt" = $6 WHERE "productId" = $7`,
		p.Name, p.Description, p.Price, p.Stock, p.Image, p.UpdatedAt, id)
	if err != nil {
		return Product{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE "productId" = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock applies "stock = stock - qty" only when stock >= qty, as a
// single statement. Zero rows affected means the product is missing or the
// decrement would go negative; either way the reservation did not happen.
func (r *PostgresRepository) DecrementStock(id int, qty int, updatedAt string) (bool, error) {
	res, err := r.db.Exec(`UPDATE products SET stock = stock - $1, "updatedAt" = $2 WHERE "productId" = $3 AND stock >= $1`,
		qty, updatedAt, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PostgresRepository) IncrementStock(id int, qty int, updatedAt string) error {
	res, err := r.db.Exec(`UPDATE products SET stock = stock + $1, "updatedAt" = $2 WHERE "productId" = $3`,
		qty, updatedAt, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	var description, image, createdAt, updatedAt sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &description, &p.Price, &p.Stock, &image, &createdAt, &updatedAt); err != nil {
		return Product{}, err
	}
	p.Description = description.String
	p.Image = image.String
	p.CreatedAt = createdAt.String
	p.UpdatedAt = updatedAt.String
	return p, nil
}

func collectProducts(rows *sql.Rows) ([]Product, error) {
	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
