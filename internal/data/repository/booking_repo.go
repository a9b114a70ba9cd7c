package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hall-booking/internal/data/entity"
	"hall-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// activeSlotConstraint is the partial unique index on (hall_id, booking_date, start_time)
// covering pending and approved bookings.
const activeSlotConstraint = "bookings_active_slot_key"

// BookingCheck decides whether a booking may be written, given its hall
// (locked for the duration of the transaction) and every other booking
// of that hall on the same date.
type BookingCheck func(hall *entity.Hall, sameDay []*entity.Booking) error

// BookingMutation applies a change to a locked booking. Returning an error aborts the write.
type BookingMutation func(booking *entity.Booking) error

type HallStatusCount struct {
	HallID   uuid.UUID
	HallName string
	Status   entity.BookingStatus
	Count    int64
}

type BookingRepository interface {
	// CreateChecked runs check and the insert in one transaction holding the hall row lock.
	CreateChecked(ctx context.Context, booking *entity.Booking, check BookingCheck) error
	// Transition locks the booking, applies mutate and persists the status fields.
	Transition(ctx context.Context, id uuid.UUID, mutate BookingMutation) (*entity.Booking, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error)
	FindActiveByHallID(ctx context.Context, hallID uuid.UUID) ([]*entity.Booking, error)
	FindByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error)
	FindActiveOnDate(ctx context.Context, date time.Time) ([]*entity.Booking, error)
	ExistsActiveOnDate(ctx context.Context, hallID uuid.UUID, date time.Time) (bool, error)

	CountByUserAndStatus(ctx context.Context, userID uuid.UUID) (map[entity.BookingStatus]int64, error)
	CountByStatus(ctx context.Context) (map[entity.BookingStatus]int64, error)
	CountByHallAndStatus(ctx context.Context) ([]HallStatusCount, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, hall_id, user_id, booking_date,
	to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
	purpose, expected_attendees, faculty, status, approved_by, rejection_reason,
	created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var (
		booking    entity.Booking
		start, end string
	)
	err := row.Scan(
		&booking.ID,
		&booking.HallID,
		&booking.UserID,
		&booking.BookingDate,
		&start,
		&end,
		&booking.Purpose,
		&booking.ExpectedAttendees,
		&booking.Faculty,
		&booking.Status,
		&booking.ApprovedBy,
		&booking.RejectionReason,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if booking.StartTime, err = entity.ParseTimeOfDay(start); err != nil {
		return nil, err
	}
	if booking.EndTime, err = entity.ParseTimeOfDay(end); err != nil {
		return nil, err
	}
	booking.BookingDate = entity.DateOf(booking.BookingDate)

	return &booking, nil
}

func collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	defer rows.Close()

	bookings := []*entity.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) CreateChecked(ctx context.Context, booking *entity.Booking, check BookingCheck) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		// serialises concurrent submissions for the same hall
		hall, err := scanHall(tx.QueryRow(ctx,
			`SELECT `+hallColumns+` FROM halls WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
			booking.HallID,
		))
		if err == pgx.ErrNoRows {
			return fmt.Errorf("hall %s: %w", booking.HallID.String(), ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock hall %s: %w", booking.HallID.String(), err)
		}

		rows, err := tx.Query(ctx,
			`SELECT `+bookingColumns+` FROM bookings WHERE hall_id = $1 AND booking_date = $2 AND id <> $3`,
			booking.HallID, booking.BookingDate, booking.ID,
		)
		if err != nil {
			return fmt.Errorf("load bookings for hall %s: %w", booking.HallID.String(), err)
		}
		sameDay, err := collectBookings(rows)
		if err != nil {
			return err
		}

		if err := check(hall, sameDay); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO bookings (id, hall_id, user_id, booking_date, start_time, end_time, purpose,
			                      expected_attendees, faculty, status, approved_by, rejection_reason,
			                      created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5::time, $6::time, $7, $8, $9, $10, $11, $12, $13, $14)
		`,
			booking.ID,
			booking.HallID,
			booking.UserID,
			booking.BookingDate,
			booking.StartTime.String(),
			booking.EndTime.String(),
			booking.Purpose,
			booking.ExpectedAttendees,
			booking.Faculty,
			booking.Status,
			booking.ApprovedBy,
			booking.RejectionReason,
			booking.CreatedAt,
			booking.UpdatedAt,
		)
		if database.IsUniqueViolation(err, activeSlotConstraint) {
			return ErrSlotTaken
		}
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})

	if err != nil && !errors.Is(err, ErrSlotTaken) && !errors.Is(err, ErrNotFound) {
		r.log.Warn("Booking not created",
			zap.Error(err),
			zap.String("hall_id", booking.HallID.String()),
			zap.String("user_id", booking.UserID.String()),
			zap.String("date", booking.BookingDate.Format(entity.DateLayout)),
		)
	}
	return err
}

func (r *bookingRepository) Transition(ctx context.Context, id uuid.UUID, mutate BookingMutation) (*entity.Booking, error) {
	var updated *entity.Booking

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		booking, err := scanBooking(tx.QueryRow(ctx,
			`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id,
		))
		if err == pgx.ErrNoRows {
			return fmt.Errorf("booking %s: %w", id.String(), ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock booking %s: %w", id.String(), err)
		}

		if err := mutate(booking); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE bookings
			SET status = $2, approved_by = $3, rejection_reason = $4, updated_at = $5
			WHERE id = $1
		`,
			booking.ID,
			booking.Status,
			booking.ApprovedBy,
			booking.RejectionReason,
			booking.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to update booking status",
				zap.Error(err),
				zap.String("booking_id", id.String()),
				zap.String("status", string(booking.Status)),
			)
			return fmt.Errorf("update booking %s status to %s: %w", id.String(), booking.Status, err)
		}

		updated = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := scanBooking(r.db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}

	return collectBookings(rows)
}

func (r *bookingRepository) FindActiveByHallID(ctx context.Context, hallID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE hall_id = $1 AND status IN ('pending', 'approved')
		ORDER BY booking_date, start_time
	`

	rows, err := r.db.Query(ctx, query, hallID)
	if err != nil {
		r.log.Error("Failed to find active bookings by hall ID",
			zap.Error(err),
			zap.String("hall_id", hallID.String()),
		)
		return nil, fmt.Errorf("find active bookings by hall ID %s: %w", hallID.String(), err)
	}

	return collectBookings(rows)
}

func (r *bookingRepository) FindByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1
		ORDER BY booking_date, start_time
	`

	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		r.log.Error("Failed to find bookings by status",
			zap.Error(err),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("find bookings by status %s: %w", status, err)
	}

	return collectBookings(rows)
}

func (r *bookingRepository) FindActiveOnDate(ctx context.Context, date time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE booking_date = $1 AND status IN ('pending', 'approved')
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		r.log.Error("Failed to find active bookings on date",
			zap.Error(err),
			zap.String("date", date.Format(entity.DateLayout)),
		)
		return nil, fmt.Errorf("find active bookings on %s: %w", date.Format(entity.DateLayout), err)
	}

	return collectBookings(rows)
}

func (r *bookingRepository) ExistsActiveOnDate(ctx context.Context, hallID uuid.UUID, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE hall_id = $1 AND booking_date = $2 AND status IN ('pending', 'approved')
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, hallID, date).Scan(&exists); err != nil {
		r.log.Error("Failed to check hall availability",
			zap.Error(err),
			zap.String("hall_id", hallID.String()),
			zap.String("date", date.Format(entity.DateLayout)),
		)
		return false, fmt.Errorf("check bookings for hall %s: %w", hallID.String(), err)
	}

	return exists, nil
}

func (r *bookingRepository) CountByUserAndStatus(ctx context.Context, userID uuid.UUID) (map[entity.BookingStatus]int64, error) {
	query := `SELECT status, COUNT(*) FROM bookings WHERE user_id = $1 GROUP BY status`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to count bookings by user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("count bookings for user %s: %w", userID.String(), err)
	}

	return collectStatusCounts(rows)
}

func (r *bookingRepository) CountByStatus(ctx context.Context) (map[entity.BookingStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		r.log.Error("Failed to count bookings by status", zap.Error(err))
		return nil, fmt.Errorf("count bookings by status: %w", err)
	}

	return collectStatusCounts(rows)
}

func (r *bookingRepository) CountByHallAndStatus(ctx context.Context) ([]HallStatusCount, error) {
	query := `
		SELECT h.id, h.name, b.status, COUNT(*)
		FROM bookings b
		JOIN halls h ON h.id = b.hall_id
		GROUP BY h.id, h.name, b.status
		ORDER BY h.name, b.status
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to count bookings by hall", zap.Error(err))
		return nil, fmt.Errorf("count bookings by hall: %w", err)
	}
	defer rows.Close()

	counts := []HallStatusCount{}
	for rows.Next() {
		var c HallStatusCount
		if err := rows.Scan(&c.HallID, &c.HallName, &c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("scan hall status count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hall status counts: %w", err)
	}

	return counts, nil
}

func collectStatusCounts(rows pgx.Rows) (map[entity.BookingStatus]int64, error) {
	defer rows.Close()

	counts := map[entity.BookingStatus]int64{}
	for rows.Next() {
		var (
			status entity.BookingStatus
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	return counts, nil
}
