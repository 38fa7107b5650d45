package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/olimp/hotel-booking/internal/database"
	"github.com/olimp/hotel-booking/internal/model"
)

// ErrRoomExists is returned when a room name is already taken.
var ErrRoomExists = errors.New("room already exists")

// RoomRepo provides methods to create and retrieve rooms.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Create inserts a new room and sets its ID.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	const q = `INSERT INTO rooms (name, capacity, price_per_night_cents, description) VALUES (?, ?, ?, ?)`
	var desc sql.NullString
	if room.Description != nil {
		desc = sql.NullString{String: *room.Description, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, q, room.Name, room.Capacity, room.PricePerNightCents, desc)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return ErrRoomExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	return nil
}

func scanRoom(sc interface{ Scan(...any) error }) (model.Room, error) {
	var (
		room model.Room
		desc sql.NullString
	)
	if err := sc.Scan(&room.ID, &room.Name, &room.Capacity, &room.PricePerNightCents, &desc); err != nil {
		return model.Room{}, err
	}
	if desc.Valid {
		room.Description = &desc.String
	}
	return room, nil
}

// GetByID fetches a room by its ID. ErrRoomNotFound is returned if no row
// matches.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	const q = `SELECT id, name, capacity, price_per_night_cents, description FROM rooms WHERE id = ?`
	room, err := scanRoom(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, ErrRoomNotFound
	}
	return room, err
}

// List returns all rooms ordered by ID.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, capacity, price_per_night_cents, description FROM rooms ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}
