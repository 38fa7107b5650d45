package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/olimp/hotel-booking/internal/model"
)

// AuthorRepo reads and writes the authors table.
type AuthorRepo struct{ db *sql.DB }

func NewAuthorRepo(db *sql.DB) *AuthorRepo { return &AuthorRepo{db: db} }

// Create inserts a and sets its ID.
func (r *AuthorRepo) Create(ctx context.Context, a *model.Author) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO authors (first_name, last_name) VALUES (?, ?)", a.FirstName, a.LastName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

func (r *AuthorRepo) List(ctx context.Context) ([]model.Author, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, first_name, last_name FROM authors ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Author, 0)
	for rows.Next() {
		var a model.Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetByID returns one author or ErrNotFound.
func (r *AuthorRepo) GetByID(ctx context.Context, id uint64) (model.Author, error) {
	var a model.Author
	err := r.db.QueryRowContext(ctx,
		"SELECT id, first_name, last_name FROM authors WHERE id = ?", id).Scan(&a.ID, &a.FirstName, &a.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Author{}, ErrNotFound
	}
	return a, err
}
