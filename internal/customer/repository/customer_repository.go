package repository

import (
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/walter090/customer-transactions/shared/models"
)

const pageSize = 10

// CustomerWriteRepository handles all state-mutating operations for customers
// against the PostgreSQL write store.
type CustomerWriteRepository struct {
	db *sql.DB
}

func NewCustomerWriteRepository(db *sql.DB) *CustomerWriteRepository {
	return &CustomerWriteRepository{db: db}
}

func (r *CustomerWriteRepository) Create(customer *models.Customer) error {
	query := `
		INSERT INTO customers (identifier, username, email, password_hash, first_name, last_name,
		                       birth_year, occupation_type, balance, is_staff, is_superuser, is_active, creation_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(query,
		customer.Identifier, customer.Username, customer.Email, customer.PasswordHash,
		customer.FirstName, customer.LastName, customer.BirthYear, customer.OccupationType,
		customer.Balance, customer.IsStaff, customer.IsSuperuser, customer.IsActive,
		customer.CreationDate,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("username or email already in use")
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// AdjustBalance applies a signed amount to a customer's balance in a single
// conditional UPDATE, so concurrent transfers against one customer cannot
// lose updates. Returns the new balance.
func (r *CustomerWriteRepository) AdjustBalance(customerID string, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE customers
		SET balance = balance + $1
		WHERE identifier = $2 AND balance + $1 >= 0
		RETURNING balance
	`
	var balance decimal.Decimal
	err := r.db.QueryRow(query, amount, customerID).Scan(&balance)
	if err == sql.ErrNoRows {
		// Either the customer does not exist or the update would overdraw.
		var exists bool
		if checkErr := r.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM customers WHERE identifier = $1)`, customerID).Scan(&exists); checkErr != nil {
			return decimal.Zero, fmt.Errorf("failed to check customer: %w", checkErr)
		}
		if !exists {
			return decimal.Zero, fmt.Errorf("customer not found")
		}
		return decimal.Zero, fmt.Errorf("account overdrawn")
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to adjust balance: %w", err)
	}
	return balance, nil
}

func (r *CustomerWriteRepository) GetByID(customerID string) (*models.Customer, error) {
	return r.getOne(`WHERE identifier = $1`, customerID)
}

func (r *CustomerWriteRepository) GetByUsername(username string) (*models.Customer, error) {
	return r.getOne(`WHERE username = $1`, username)
}

func (r *CustomerWriteRepository) getOne(where string, arg any) (*models.Customer, error) {
	query := `
		SELECT identifier, username, email, password_hash, first_name, last_name,
		       birth_year, occupation_type, balance, is_staff, is_superuser, is_active, creation_date
		FROM customers ` + where

	var c models.Customer
	err := r.db.QueryRow(query, arg).Scan(
		&c.Identifier, &c.Username, &c.Email, &c.PasswordHash,
		&c.FirstName, &c.LastName, &c.BirthYear, &c.OccupationType,
		&c.Balance, &c.IsStaff, &c.IsSuperuser, &c.IsActive, &c.CreationDate,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

type customerCursor struct {
	LastName   string `json:"l"`
	Identifier string `json:"i"`
}

// List returns one page of customers ordered by last name, with an opaque
// cursor for the next page. An empty next cursor means the listing is done.
func (r *CustomerWriteRepository) List(cursor string) ([]models.CustomerView, string, error) {
	query := `
		SELECT identifier, username, email, first_name, last_name, birth_year, occupation_type
		FROM customers
	`
	args := []any{}
	if cursor != "" {
		var cur customerCursor
		if err := decodeCursor(cursor, &cur); err != nil {
			return nil, "", fmt.Errorf("invalid cursor")
		}
		query += ` WHERE (last_name, identifier) > ($1, $2)`
		args = append(args, cur.LastName, cur.Identifier)
	}
	query += fmt.Sprintf(` ORDER BY last_name, identifier LIMIT %d`, pageSize+1)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var views []models.CustomerView
	for rows.Next() {
		var v models.CustomerView
		if err := rows.Scan(&v.Identifier, &v.Username, &v.Email, &v.FirstName,
			&v.LastName, &v.BirthYear, &v.OccupationType); err != nil {
			return nil, "", fmt.Errorf("failed to scan customer: %w", err)
		}
		views = append(views, v)
	}

	next := ""
	if len(views) > pageSize {
		views = views[:pageSize]
		last := views[len(views)-1]
		next = encodeCursor(customerCursor{LastName: last.LastName, Identifier: last.Identifier})
	}
	return views, next, nil
}

func encodeCursor(v any) string {
	data, _ := json.Marshal(v)
	return base64.URLEncoding.EncodeToString(data)
}

func decodeCursor(cursor string, v any) error {
	data, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
