package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/olimp/hotel-booking/internal/database"
	"github.com/olimp/hotel-booking/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, database.SQLite))
	return db
}

// seed creates one user and one room and returns their IDs.
func seed(t *testing.T, db *sql.DB) (userID, roomID uint64) {
	t.Helper()
	ctx := context.Background()
	userID, err := NewUserRepo(db).Create(ctx, "guest", "secret1", bcrypt.MinCost)
	require.NoError(t, err)
	room := &model.Room{Name: "101", Capacity: 2, PricePerNightCents: 9900}
	require.NoError(t, NewRoomRepo(db).Create(ctx, room))
	return userID, room.ID
}

func day(d int) model.Date { return model.NewDate(2024, time.March, d) }

func TestReservationInsertAndConflict(t *testing.T) {
	db := openTestDB(t)
	userID, roomID := seed(t, db)
	repo := NewReservationRepo(db, database.SQLite)
	ctx := context.Background()

	first := &model.Reservation{RoomID: roomID, StartDate: day(1), EndDate: day(5),
		GuestName: "Ann", GuestEmail: "ann@example.com", BookedBy: userID}
	require.NoError(t, repo.Insert(ctx, first))
	assert.NotZero(t, first.ID)

	cases := []struct {
		name     string
		start    model.Date
		end      model.Date
		conflict bool
	}{
		{"identical", day(1), day(5), true},
		{"inside", day(2), day(3), true},
		{"covering", day(1), day(10), true},
		{"tail overlap", day(4), day(8), true},
		{"checkout day", day(5), day(8), false},
		{"ends on checkin", model.NewDate(2024, time.February, 27), day(1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.HasConflict(ctx, roomID, tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.conflict, got)
		})
	}

	dup := &model.Reservation{RoomID: roomID, StartDate: day(3), EndDate: day(4),
		GuestName: "Bob", GuestEmail: "bob@example.com", BookedBy: userID}
	assert.ErrorIs(t, repo.Insert(ctx, dup), ErrConflict)
	assert.Zero(t, dup.ID)

	back := &model.Reservation{RoomID: roomID, StartDate: day(5), EndDate: day(7),
		GuestName: "Bob", GuestEmail: "bob@example.com", BookedBy: userID}
	require.NoError(t, repo.Insert(ctx, back))

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", got.StartDate.String())
	assert.Equal(t, "2024-03-05", got.EndDate.String())
	assert.Equal(t, "Ann", got.GuestName)

	list, err := repo.ListByRoom(ctx, roomID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)

	mine, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, back.ID, mine[0].ID)
}

func TestReservationInsertUnknownRoom(t *testing.T) {
	db := openTestDB(t)
	userID, _ := seed(t, db)
	repo := NewReservationRepo(db, database.SQLite)

	res := &model.Reservation{RoomID: 999, StartDate: day(1), EndDate: day(2),
		GuestName: "Ann", GuestEmail: "ann@example.com", BookedBy: userID}
	assert.ErrorIs(t, repo.Insert(context.Background(), res), ErrRoomNotFound)

	_, err := repo.GetByID(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReservationConcurrentBookingsAdmitOne(t *testing.T) {
	db := openTestDB(t)
	userID, roomID := seed(t, db)
	repo := NewReservationRepo(db, database.SQLite)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			res := &model.Reservation{RoomID: roomID, StartDate: day(10), EndDate: day(12),
				GuestName: "Racer", GuestEmail: "racer@example.com", BookedBy: userID}
			err := repo.Insert(ctx, res)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, ErrConflict):
				conflicts++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflicts)

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE room_id = ?`, roomID).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestUserRepo(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, " alice ", "secret1", bcrypt.MinCost)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "alice", "other12", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrLoginExists)

	u, err := repo.GetByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	_, err = repo.GetByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.UserView{{ID: id, Login: "alice"}}, users)
}

func TestRoomAndAuthorRepo(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	rooms := NewRoomRepo(db)

	desc := "sea view"
	room := &model.Room{Name: "Suite", Capacity: 4, PricePerNightCents: 25000, Description: &desc}
	require.NoError(t, rooms.Create(ctx, room))
	assert.ErrorIs(t, rooms.Create(ctx, &model.Room{Name: "Suite"}), ErrRoomExists)

	got, err := rooms.GetByID(ctx, room.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Description)
	assert.Equal(t, "sea view", *got.Description)

	_, err = rooms.GetByID(ctx, 404)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	authors := NewAuthorRepo(db)
	require.NoError(t, authors.Create(ctx, &model.Author{FirstName: "Ada", LastName: "Lovelace"}))
	list, err := authors.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Lovelace", list[0].LastName)

	one, err := authors.GetByID(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", one.FirstName)
	_, err = authors.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
