package order

import (
	"database/sql"
	"encoding/json"
)

type PostgresRepository struct {
	db *sql.DB
}

const orderColumns = `"orderId", "orderRef", "userId", items, "shippingAddress", "paymentMethod",
        "itemsPrice", "taxPrice", "shippingPrice", "totalPrice",
        "isPaid", "paidAt", "paymentResult", "isDelivered", "deliveredAt", "createdAt"`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ord Order) (Order, error) {
	itemsJSON, err := json.Marshal(ord.Items)
	if err != nil {
		return Order{}, err
	}
	addressJSON, err := json.Marshal(ord.ShippingAddress)
	if err != nil {
		return Order{}, err
	}

	err = r.db.QueryRow(`INSERT INTO orders ("orderRef", "userId", items, "shippingAddress", "paymentMethod",
        "itemsPrice", "taxPrice", "shippingPrice", "totalPrice", "isPaid", "isDelivered", "createdAt")
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING "orderId"`,
		ord.Ref, ord.UserID, itemsJSON, addressJSON, ord.PaymentMethod,
		ord.ItemsPrice, ord.TaxPrice, ord.ShippingPrice, ord.TotalPrice,
		ord.IsPaid, ord.IsDelivered, ord.CreatedAt).Scan(&ord.ID)
	if err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	ord, err := scanOrder(r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE "orderId" = $1`, id))
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	return ord, err
}

func (r *PostgresRepository) Update(ord Order) (Order, error) {
	var resultJSON []byte
	if ord.PaymentResult != nil {
		var err error
		resultJSON, err = json.Marshal(ord.PaymentResult)
		if err != nil {
			return Order{}, err
		}
	}

	res, err := r.db.Exec(`UPDATE orders SET "isPaid" = $1, "paidAt" = NULLIF($2,''), "paymentResult" = $3,
        "isDelivered" = $4, "deliveredAt" = NULLIF($5,'')
        WHERE "orderId" = $6`,
		ord.IsPaid, ord.PaidAt, resultJSON, ord.IsDelivered, ord.DeliveredAt, ord.ID)
	if err != nil {
		return Order{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Order{}, ErrNotFound
	}
	return ord, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders WHERE "userId" = $1 ORDER BY "orderId"`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *PostgresRepository) ListAll() ([]Order, error) {
	rows, err := r.db.Query(`SELECT ` + orderColumns + ` FROM orders ORDER BY "orderId"`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var ord Order
	var itemsJSON, addressJSON []byte
	var resultJSON []byte
	var paidAt, deliveredAt, createdAt sql.NullString

	err := row.Scan(&ord.ID, &ord.Ref, &ord.UserID, &itemsJSON, &addressJSON, &ord.PaymentMethod,
		&ord.ItemsPrice, &ord.TaxPrice, &ord.ShippingPrice, &ord.TotalPrice,
		&ord.IsPaid, &paidAt, &resultJSON, &ord.IsDelivered, &deliveredAt, &createdAt)
	if err != nil {
		return Order{}, err
	}

	if err := json.Unmarshal(itemsJSON, &ord.Items); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(addressJSON, &ord.ShippingAddress); err != nil {
		return Order{}, err
	}
	if len(resultJSON) > 0 {
		if err := json.Unmarshal(resultJSON, &ord.PaymentResult); err != nil {
			return Order{}, err
		}
	}
	ord.PaidAt = paidAt.String
	ord.DeliveredAt = deliveredAt.String
	ord.CreatedAt = createdAt.String
	return ord, nil
}

func collectOrders(rows *sql.Rows) ([]Order, error) {
	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	return orders, rows.Err()
}
