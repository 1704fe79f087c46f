package product

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDecrementStock_Reserves(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec(`UPDATE products SET stock = stock - \$1`).
		WithArgs(3, sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.DecrementStock(7, 3, "2026-01-02T03:04:05Z")
	if err != nil {
		t.Fatalf("DecrementStock error: %v", err)
	}
	if !ok {
		t.Fatalf("expected reservation to succeed")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDecrementStock_InsufficientOrMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// stock < qty (or no such product) means the guarded UPDATE matches no row
	mock.ExpectExec(`UPDATE products SET stock = stock - \$1`).
		WithArgs(5, sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.DecrementStock(7, 5, "2026-01-02T03:04:05Z")
	if err != nil {
		t.Fatalf("DecrementStock error: %v", err)
	}
	if ok {
		t.Fatalf("expected reservation to fail")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestIncrementStock_Restocks(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec(`UPDATE products SET stock = stock \+ \$1`).
		WithArgs(2, sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.IncrementStock(7, 2, "2026-01-02T03:04:05Z"); err != nil {
		t.Fatalf("IncrementStock error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{"productId", "name", "description", "price", "stock", "image", "createdAt", "updatedAt"}).
		AddRow(9, "Hub", "7-in-1", 39.50, 12, "/images/hub.jpg", "t", "u")
	mock.ExpectQuery(`FROM products WHERE "productId"`).WithArgs(9).WillReturnRows(rows)

	p, err := repo.GetByID(9)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if p.ID != 9 || p.Name != "Hub" || p.Stock != 12 {
		t.Fatalf("unexpected product %+v", p)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`FROM products WHERE "productId"`).WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"productId", "name", "description", "price", "stock", "image", "createdAt", "updatedAt"}))

	if _, err := repo.GetByID(404); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
