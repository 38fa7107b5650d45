package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/olimp/hotel-booking/internal/model"
	"github.com/olimp/hotel-booking/internal/queue"
	"github.com/olimp/hotel-booking/internal/repository"
)

// ReservationStore is the persistence the service needs. Insert must
// perform its own locked overlap re-check and report repository.ErrConflict
// or repository.ErrRoomNotFound.
type ReservationStore interface {
	HasConflict(ctx context.Context, roomID uint64, start, end model.Date) (bool, error)
	Insert(ctx context.Context, res *model.Reservation) error
	ListByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
}

// EventPublisher receives reservation.created events.
type EventPublisher interface {
	PublishReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) error
}

const publishTimeout = 3 * time.Second

// ReservationService books rooms. A nil publisher disables events.
type ReservationService struct {
	store ReservationStore
	pub   EventPublisher
	log   *zap.Logger
	now   func() time.Time
}

func NewReservationService(store ReservationStore, pub EventPublisher, log *zap.Logger) *ReservationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReservationService{store: store, pub: pub, log: log, now: time.Now}
}

// Book authorizes, validates, pre-checks and inserts a reservation. On
// success exactly one reservation has been persisted; on any error none has.
func (s *ReservationService) Book(ctx context.Context, sess *model.Session, req BookingRequest) (model.Reservation, error) {
	who, err := Authorize(sess)
	if err != nil {
		return model.Reservation{}, err
	}
	v, err := Validate(req)
	if err != nil {
		return model.Reservation{}, err
	}

	conflict, err := s.store.HasConflict(ctx, v.RoomID, v.StartDate, v.EndDate)
	if err != nil {
		return model.Reservation{}, &StorageError{Op: "check availability", Err: err}
	}
	if conflict {
		return model.Reservation{}, ErrConflict
	}

	res := model.Reservation{
		RoomID:     v.RoomID,
		StartDate:  v.StartDate,
		EndDate:    v.EndDate,
		GuestName:  v.GuestName,
		GuestEmail: v.GuestEmail,
		BookedBy:   who.UserID,
	}
	if err := s.store.Insert(ctx, &res); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return model.Reservation{}, ErrConflict
		case errors.Is(err, repository.ErrRoomNotFound):
			return model.Reservation{}, ErrRoomNotFound
		default:
			return model.Reservation{}, &StorageError{Op: "create reservation", Err: err}
		}
	}

	s.publish(ctx, res)
	return res, nil
}

func (s *ReservationService) publish(ctx context.Context, res model.Reservation) {
	if s.pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.pub.PublishReservationCreated(ctx, queue.NewReservationCreated(res, s.now())); err != nil {
		s.log.Warn("publish reservation.created failed",
			zap.Uint64("reservation_id", res.ID), zap.Error(err))
	}
}

// ListForRoom returns the booked ranges of a room.
func (s *ReservationService) ListForRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error) {
	out, err := s.store.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, &StorageError{Op: "list room reservations", Err: err}
	}
	return out, nil
}

// ListMine returns the reservations booked by the session's identity.
func (s *ReservationService) ListMine(ctx context.Context, sess *model.Session) ([]model.Reservation, error) {
	who, err := Authorize(sess)
	if err != nil {
		return nil, err
	}
	out, err := s.store.ListByUser(ctx, who.UserID)
	if err != nil {
		return nil, &StorageError{Op: "list my reservations", Err: err}
	}
	return out, nil
}
