package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/olimp/hotel-booking/internal/database"
	"github.com/olimp/hotel-booking/internal/model"
	"github.com/olimp/hotel-booking/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrLoginExists = errors.New("login already exists")

// Create hashes password, inserts the user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, login, password string, cost int) (uint64, error) {
	login = strings.TrimSpace(login)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (login, password_hash) VALUES (?,?)", login, hash)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return 0, ErrLoginExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByLogin fetches a user by login. ErrNotFound if absent.
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (model.User, error) {
	return r.getOne(ctx, "SELECT id,login,password_hash FROM users WHERE login=? LIMIT 1", strings.TrimSpace(login))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx, "SELECT id,login,password_hash FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, q, arg).Scan(&u.ID, &u.Login, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// List returns every user without credentials.
func (r *UserRepo) List(ctx context.Context) ([]model.UserView, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id,login FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.UserView, 0)
	for rows.Next() {
		var v model.UserView
		if err := rows.Scan(&v.ID, &v.Login); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
