package user

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const userColumns = `"userId", username, email, password, "isAdmin", "createdAt", "updatedAt"`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() []User {
	rows, err := r.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY "userId"`)
	if err != nil {
		return []User{}
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			continue
		}
		users = append(users, u)
	}
	return users
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE "userId" = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) Create(user User) (User, error) {
	err := r.db.QueryRow(`INSERT INTO users (username, email, password, "isAdmin", "createdAt", "updatedAt")
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING "userId"`,
		user.Username, user.Email, user.Password, user.IsAdmin, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (r *PostgresRepository) Update(id int, user User) (User, error) {
	res, err := r.db.Exec(`UPDATE users SET username = $1, email = $2, password = COALESCE(NULLIF($3,''), password), "updatedAt" = $4 WHERE "userId" = $5`,
		user.Username, user.Email, user.Password, user.UpdatedAt, id)
	if err != nil {
		return User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return User{}, ErrNotFound
	}
	return r.GetByID(id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	var createdAt, updatedAt sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.IsAdmin, &createdAt, &updatedAt); err != nil {
		return User{}, err
	}
	u.CreatedAt = createdAt.String
	u.UpdatedAt = updatedAt.String
	return u, nil
}
