// Package repotest provides in-memory implementations of the repository
// interfaces for use in tests.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"hall-booking/internal/data/entity"
	"hall-booking/internal/data/repository"

	"github.com/google/uuid"
)

// Store keeps every table in memory behind one mutex, which plays the role
// of the row locks taken by the Postgres repositories.
type Store struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	sessions map[uuid.UUID]*entity.Session
	halls    map[uuid.UUID]*entity.Hall
	bookings map[uuid.UUID]*entity.Booking

	// Err, when set, is returned by every operation.
	Err error
	// Now decides session expiry. Defaults to time.Now.
	Now func() time.Time
}

func New() *Store {
	return &Store{
		users:    map[uuid.UUID]*entity.User{},
		sessions: map[uuid.UUID]*entity.Session{},
		halls:    map[uuid.UUID]*entity.Hall{},
		bookings: map[uuid.UUID]*entity.Booking{},
		Now:      time.Now,
	}
}

// Repository bundles the store behind the repository interfaces.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User:    userRepo{s},
		Session: sessionRepo{s},
		Hall:    hallRepo{s},
		Booking: bookingRepo{s},
	}
}

// AddHall inserts a hall, filling id and timestamps when missing.
func (s *Store) AddHall(hall *entity.Hall) *entity.Hall {
	if hall.ID == uuid.Nil {
		hall.ID = uuid.New()
	}
	if hall.CreatedAt.IsZero() {
		hall.CreatedAt = time.Now()
		hall.UpdatedAt = hall.CreatedAt
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.halls[hall.ID] = copyHall(hall)
	return hall
}

// AddBooking inserts a booking without any rule checks.
func (s *Store) AddBooking(booking *entity.Booking) *entity.Booking {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
		booking.UpdatedAt = booking.CreatedAt
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[booking.ID] = copyBooking(booking)
	return booking
}

// AddUser inserts a user.
func (s *Store) AddUser(user *entity.User) *entity.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = copyUser(user)
	return user
}

// Booking returns a snapshot of the stored booking, or nil.
func (s *Store) Booking(id uuid.UUID) *entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.bookings[id]; ok {
		return copyBooking(b)
	}
	return nil
}

func copyHall(h *entity.Hall) *entity.Hall { c := *h; return &c }
func copyUser(u *entity.User) *entity.User { c := *u; return &c }
func copySession(ss *entity.Session) *entity.Session { c := *ss; return &c }

func copyBooking(b *entity.Booking) *entity.Booking {
	c := *b
	if b.ApprovedBy != nil {
		id := *b.ApprovedBy
		c.ApprovedBy = &id
	}
	if b.RejectionReason != nil {
		reason := *b.RejectionReason
		c.RejectionReason = &reason
	}
	return &c
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("user %s: %w", user.Username, repository.ErrDuplicate)
		}
	}
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r userRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, u := range r.s.users {
		if u.DeletedAt == nil && match(u) {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r userRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r userRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}

func (r userRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.users[user.ID]; !ok {
		return fmt.Errorf("user %s: %w", user.ID, repository.ErrNotFound)
	}
	r.s.users[user.ID] = copyUser(user)
	return nil
}

type sessionRepo struct{ s *Store }

func (r sessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.sessions[session.Token] = copySession(session)
	return nil
}

func (r sessionRepo) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	session, ok := r.s.sessions[token]
	if !ok || !session.IsValid(r.s.Now()) {
		return nil, nil
	}
	return copySession(session), nil
}

func (r sessionRepo) Revoke(_ context.Context, token uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	session, ok := r.s.sessions[token]
	if !ok || session.RevokedAt != nil {
		return fmt.Errorf("session: %w", repository.ErrNotFound)
	}
	now := r.s.Now()
	session.RevokedAt = &now
	return nil
}

func (r sessionRepo) CleanExpiredSessions(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	cutoff := r.s.Now().AddDate(0, 0, -7)
	var removed int64
	for token, session := range r.s.sessions {
		if session.ExpiresAt.Before(cutoff) {
			delete(r.s.sessions, token)
			removed++
		}
	}
	return removed, nil
}

type hallRepo struct{ s *Store }

func (r hallRepo) Create(_ context.Context, hall *entity.Hall) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.halls[hall.ID] = copyHall(hall)
	return nil
}

func (r hallRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Hall, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	hall, ok := r.s.halls[id]
	if !ok || hall.DeletedAt != nil {
		return nil, nil
	}
	return copyHall(hall), nil
}

func (r hallRepo) FindByName(_ context.Context, name string) (*entity.Hall, error) {
	for _, hall := range r.list(false) {
		if hall.Name == name {
			return hall, nil
		}
	}
	return nil, r.s.Err
}

func (r hallRepo) list(onlyAvailable bool) []*entity.Hall {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	halls := []*entity.Hall{}
	for _, hall := range r.s.halls {
		if hall.DeletedAt != nil || (onlyAvailable && !hall.Available) {
			continue
		}
		halls = append(halls, copyHall(hall))
	}
	sort.Slice(halls, func(i, j int) bool { return halls[i].Name < halls[j].Name })
	return halls
}

func (r hallRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Hall, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	halls := r.list(false)
	if offset >= len(halls) {
		return []*entity.Hall{}, nil
	}
	end := min(offset+limit, len(halls))
	return halls[offset:end], nil
}

func (r hallRepo) CountAll(_ context.Context) (int64, error) {
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(r.list(false))), nil
}

func (r hallRepo) FindAvailable(_ context.Context) ([]*entity.Hall, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.list(true), nil
}

func (r hallRepo) CountAvailable(_ context.Context) (int64, error) {
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(r.list(true))), nil
}

func (r hallRepo) Update(_ context.Context, hall *entity.Hall) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	existing, ok := r.s.halls[hall.ID]
	if !ok || existing.DeletedAt != nil {
		return fmt.Errorf("hall %s: %w", hall.ID, repository.ErrNotFound)
	}
	r.s.halls[hall.ID] = copyHall(hall)
	return nil
}

func (r hallRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	hall, ok := r.s.halls[id]
	if !ok || hall.DeletedAt != nil {
		return fmt.Errorf("hall %s: %w", id, repository.ErrNotFound)
	}
	now := time.Now()
	hall.DeletedAt = &now
	hall.Available = false
	return nil
}

type bookingRepo struct{ s *Store }

func (r bookingRepo) CreateChecked(_ context.Context, booking *entity.Booking, check repository.BookingCheck) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}

	hall, ok := r.s.halls[booking.HallID]
	if !ok || hall.DeletedAt != nil {
		return fmt.Errorf("hall %s: %w", booking.HallID, repository.ErrNotFound)
	}

	sameDay := []*entity.Booking{}
	for _, b := range r.s.bookings {
		if b.HallID == booking.HallID && b.BookingDate.Equal(booking.BookingDate) && b.ID != booking.ID {
			sameDay = append(sameDay, copyBooking(b))
		}
	}

	if err := check(copyHall(hall), sameDay); err != nil {
		return err
	}

	// partial unique index on active slots
	if booking.Status.IsActive() {
		for _, b := range sameDay {
			if b.Status.IsActive() && b.StartTime == booking.StartTime {
				return repository.ErrSlotTaken
			}
		}
	}

	r.s.bookings[booking.ID] = copyBooking(booking)
	return nil
}

func (r bookingRepo) Transition(_ context.Context, id uuid.UUID, mutate repository.BookingMutation) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	stored, ok := r.s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}

	working := copyBooking(stored)
	if err := mutate(working); err != nil {
		return nil, err
	}

	r.s.bookings[id] = copyBooking(working)
	return working, nil
}

func (r bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if b, ok := r.s.bookings[id]; ok {
		return copyBooking(b), nil
	}
	return nil, nil
}

func (r bookingRepo) filter(match func(*entity.Booking) bool) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := []*entity.Booking{}
	for _, b := range r.s.bookings {
		if match(b) {
			out = append(out, copyBooking(b))
		}
	}
	return out, nil
}

func byDateAndStart(bookings []*entity.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].BookingDate.Equal(bookings[j].BookingDate) {
			return bookings[i].BookingDate.Before(bookings[j].BookingDate)
		}
		return bookings[i].StartTime < bookings[j].StartTime
	})
}

func (r bookingRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	bookings, err := r.filter(func(b *entity.Booking) bool { return b.UserID == userID })
	if err != nil {
		return nil, err
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].CreatedAt.After(bookings[j].CreatedAt) })
	return bookings, nil
}

func (r bookingRepo) FindActiveByHallID(_ context.Context, hallID uuid.UUID) ([]*entity.Booking, error) {
	bookings, err := r.filter(func(b *entity.Booking) bool { return b.HallID == hallID && b.Status.IsActive() })
	if err != nil {
		return nil, err
	}
	byDateAndStart(bookings)
	return bookings, nil
}

func (r bookingRepo) FindByStatus(_ context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
	bookings, err := r.filter(func(b *entity.Booking) bool { return b.Status == status })
	if err != nil {
		return nil, err
	}
	byDateAndStart(bookings)
	return bookings, nil
}

func (r bookingRepo) FindActiveOnDate(_ context.Context, date time.Time) ([]*entity.Booking, error) {
	bookings, err := r.filter(func(b *entity.Booking) bool { return b.BookingDate.Equal(date) && b.Status.IsActive() })
	if err != nil {
		return nil, err
	}
	byDateAndStart(bookings)
	return bookings, nil
}

func (r bookingRepo) ExistsActiveOnDate(_ context.Context, hallID uuid.UUID, date time.Time) (bool, error) {
	bookings, err := r.filter(func(b *entity.Booking) bool {
		return b.HallID == hallID && b.BookingDate.Equal(date) && b.Status.IsActive()
	})
	return len(bookings) > 0, err
}

func (r bookingRepo) CountByUserAndStatus(_ context.Context, userID uuid.UUID) (map[entity.BookingStatus]int64, error) {
	bookings, err := r.filter(func(b *entity.Booking) bool { return b.UserID == userID })
	if err != nil {
		return nil, err
	}
	return countStatuses(bookings), nil
}

func (r bookingRepo) CountByStatus(_ context.Context) (map[entity.BookingStatus]int64, error) {
	bookings, err := r.filter(func(*entity.Booking) bool { return true })
	if err != nil {
		return nil, err
	}
	return countStatuses(bookings), nil
}

func (r bookingRepo) CountByHallAndStatus(_ context.Context) ([]repository.HallStatusCount, error) {
	bookings, err := r.filter(func(*entity.Booking) bool { return true })
	if err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	type key struct {
		hall   uuid.UUID
		status entity.BookingStatus
	}
	counts := map[key]*repository.HallStatusCount{}
	for _, b := range bookings {
		hall, ok := r.s.halls[b.HallID]
		if !ok {
			continue
		}
		k := key{b.HallID, b.Status}
		if counts[k] == nil {
			counts[k] = &repository.HallStatusCount{HallID: b.HallID, HallName: hall.Name, Status: b.Status}
		}
		counts[k].Count++
	}
	r.s.mu.Unlock()

	out := make([]repository.HallStatusCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HallName != out[j].HallName {
			return out[i].HallName < out[j].HallName
		}
		return out[i].Status < out[j].Status
	})
	return out, nil
}

func countStatuses(bookings []*entity.Booking) map[entity.BookingStatus]int64 {
	counts := map[entity.BookingStatus]int64{}
	for _, b := range bookings {
		counts[b.Status]++
	}
	return counts
}
