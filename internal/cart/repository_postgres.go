package cart

import (
	"database/sql"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/lib/pq"
)

// PostgresRepository stores each user's cart as a jsonb map of
// productId -> quantity on the users row.
type PostgresRepository struct {
	db *sql.DB
}

const cartProductsQuery = `
        SELECT "productId", name, price, image
        FROM products
        WHERE "productId" = ANY($1::int[])
        ORDER BY array_position($1::int[], "productId")
    `

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetLines(userID int) ([]Line, error) {
	m, err := r.loadCartMap(userID)
	if err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(m))
	for key, qty := range m {
		pid, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		lines = append(lines, Line{ProductID: pid, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

func (r *PostgresRepository) GetCart(userID int) ([]Item, error) {
	lines, err := r.GetLines(userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return []Item{}, nil
	}

	ids := make([]int, 0, len(lines))
	qtyByID := make(map[int]int, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
		qtyByID[l.ProductID] = l.Quantity
	}

	rows, err := r.db.Query(cartProductsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Item, 0, len(lines))
	for rows.Next() {
		var it Item
		var image sql.NullString
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Price, &image); err != nil {
			return nil, err
		}
		it.Image = image.String
		it.Quantity = qtyByID[it.ProductID]
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) AddToCart(userID int, productID int, qty int, updatedAt string) ([]Item, error) {
	m, err := r.loadCartMap(userID)
	if err != nil {
		return nil, err
	}

	key := strconv.Itoa(productID)
	newQty := m[key] + qty
	if newQty <= 0 {
		delete(m, key)
	} else {
		m[key] = newQty
	}

	if err := r.saveCartMap(userID, m, updatedAt); err != nil {
		return nil, err
	}
	return r.GetCart(userID)
}

func (r *PostgresRepository) RemoveFromCart(userID int, productID int, updatedAt string) ([]Item, error) {
	m, err := r.loadCartMap(userID)
	if err != nil {
		return nil, err
	}

	delete(m, strconv.Itoa(productID))

	if err := r.saveCartMap(userID, m, updatedAt); err != nil {
		return nil, err
	}
	return r.GetCart(userID)
}

func (r *PostgresRepository) ClearCart(userID int, updatedAt string) error {
	return r.saveCartMap(userID, map[string]int{}, updatedAt)
}

func (r *PostgresRepository) loadCartMap(userID int) (map[string]int, error) {
	var raw sql.NullString
	if err := r.db.QueryRow(`SELECT cart FROM users WHERE "userId" = $1`, userID).Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	m := make(map[string]int)
	if raw.Valid && raw.String != "" {
		if err := json.Unmarshal([]byte(raw.String), &m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (r *PostgresRepository) saveCartMap(userID int, m map[string]int, updatedAt string) error {
	buf, err := json.Marshal(m)
	if err != nil {
		return err
	}

	res, err := r.db.Exec(`UPDATE users SET cart = $1, "updatedAt" = $2 WHERE "userId" = $3`, string(buf), updatedAt, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
