package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hall-booking/internal/data/entity"
	"hall-booking/internal/data/repository"
	"hall-booking/internal/dto/request"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func bookingReq(date, start, end string, attendees int) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		BookingDate:       date,
		StartTime:         start,
		EndTime:           end,
		Purpose:           "Department seminar",
		ExpectedAttendees: attendees,
	}
}

func TestBookingService_Create(t *testing.T) {
	ctx := context.Background()
	e := newEnv(UniqueSlotScopeActive)

	resp, err := e.service.Booking.Create(ctx, e.user, e.hall.ID.String(), bookingReq("2025-03-15", "10:00", "12:00", 80))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.Status != entity.BookingStatusPending {
		t.Errorf("expected pending, got %s", resp.Status)
	}
	if resp.HallName != e.hall.Name {
		t.Errorf("expected hall name %q, got %q", e.hall.Name, resp.HallName)
	}
	if resp.Faculty != entity.FacultyScience {
		t.Errorf("expected default faculty Science, got %s", resp.Faculty)
	}
	if resp.StartTime != "10:00" || resp.EndTime != "12:00" || resp.BookingDate != "2025-03-15" {
		t.Errorf("unexpected slot %s %s-%s", resp.BookingDate, resp.StartTime, resp.EndTime)
	}

	stored := e.store.Booking(uuid.MustParse(resp.ID))
	if stored == nil {
		t.Fatal("expected booking to be stored")
	}
	if stored.UserID != e.user.UserID {
		t.Errorf("expected owner %s, got %s", e.user.UserID, stored.UserID)
	}

	events := e.publisher.Events()
	if len(events) != 1 || events[0].From != "" || events[0].To != entity.BookingStatusPending {
		t.Fatalf("expected one creation event, got %+v", events)
	}
	if len(e.cache.invalidated) != 1 {
		t.Errorf("expected availability to be invalidated once, got %v", e.cache.invalidated)
	}
}

func TestBookingService_CreateRejected(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *request.CreateBookingRequest
		hallID  func(e *env) string
		wantErr error
	}{
		{
			name:    "overlap",
			req:     bookingReq("2025-03-15", "11:00", "13:00", 10),
			wantErr: ErrTimeConflict,
		},
		{
			name:    "past date",
			req:     bookingReq("2025-03-09", "14:00", "15:00", 10),
			wantErr: ErrPastDate,
		},
		{
			name:    "over capacity",
			req:     bookingReq("2025-03-15", "14:00", "15:00", 150),
			wantErr: ErrCapacityExceeded,
		},
		{
			name:    "reversed range",
			req:     bookingReq("2025-03-15", "15:00", "14:00", 10),
			wantErr: ErrInvalidTimeRange,
		},
		{
			name:    "malformed request",
			req:     bookingReq("15/03/2025", "14:00", "15:00", 10),
			wantErr: ErrValidation,
		},
		{
			name:    "unknown hall",
			req:     bookingReq("2025-03-15", "14:00", "15:00", 10),
			hallID:  func(*env) string { return uuid.NewString() },
			wantErr: ErrNotFound,
		},
		{
			name:    "malformed hall id",
			req:     bookingReq("2025-03-15", "14:00", "15:00", 10),
			hallID:  func(*env) string { return "not-a-uuid" },
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(UniqueSlotScopeActive)
			if _, err := e.service.Booking.Create(ctx, e.user, e.hall.ID.String(), bookingReq("2025-03-15", "10:00", "12:00", 80)); err != nil {
				t.Fatalf("seed booking: %v", err)
			}

			hallID := e.hall.ID.String()
			if tt.hallID != nil {
				hallID = tt.hallID(e)
			}

			_, err := e.service.Booking.Create(ctx, e.other, hallID, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if got := len(e.publisher.Events()); got != 1 {
				t.Errorf("expected no event for rejected booking, got %d events", got)
			}
		})
	}
}

func TestBookingService_RebookAfterCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("active scope frees the start time", func(t *testing.T) {
		e := newEnv(UniqueSlotScopeActive)
		first, err := e.service.Booking.Create(ctx, e.user, e.hall.ID.String(), bookingReq("2025-03-15", "10:00", "12:00", 80))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := e.service.Booking.Cancel(ctx, e.user, first.ID); err != nil {
			t.Fatalf("cancel: %v", err)
		}

		if _, err := e.service.Booking.Create(ctx, e.other, e.hall.ID.String(), bookingReq("2025-03-15", "10:00", "11:00", 20)); err != nil {
			t.Fatalf("expected rebooking to succeed, got %v", err)
		}
	})

	t.Run("all scope keeps the start time", func(t *testing.T) {
		e := newEnv(UniqueSlotScopeAll)
		first, err := e.service.Booking.Create(ctx, e.user, e.hall.ID.String(), bookingReq("2025-03-15", "10:00", "12:00", 80))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := e.service.Booking.Cancel(ctx, e.user, first.ID); err != nil {
			t.Fatalf("cancel: %v", err)
		}

		_, err = e.service.Booking.Create(ctx, e.other, e.hall.ID.String(), bookingReq("2025-03-15", "10:00", "11:00", 20))
		if !errors.Is(err, ErrDuplicateSlot) {
			t.Fatalf("expected duplicate slot, got %v", err)
		}

		// a different start in the freed range is fine
		if _, err := e.service.Booking.Create(ctx, e.other, e.hall.ID.String(), bookingReq("2025-03-15", "10:30", "11:30", 20)); err != nil {
			t.Fatalf("expected booking to succeed, got %v", err)
		}
	})
}

func TestBookingService_Cancel(t *testing.T) {
	ctx := context.Background()
	e := newEnv(UniqueSlotScopeActive)

	created, err := e.service.Booking.Create(ctx, e.user, e.hall.ID.String(), bookingReq("2025-03-15", "10:00", "12:00", 80))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := e.service.Booking.Cancel(ctx, e.other, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for another user, got %v", err)
	}

	resp, err := e.service.Booking.Cancel(ctx, e.user, created.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Status != entity.BookingStatusCancelled {
		t.Errorf("expected cancelled, got %s", resp.Status)
	}

	if _, err := e.service.Booking.Cancel(ctx, e.user, created.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on second cancel, got %v", err)
	}

	events := e.publisher.Events()
	last := events[len(events)-1]
	if last.From != entity.BookingStatusPending || last.To != entity.BookingStatusCancelled || last.ActorID != e.user.UserID {
		t.Errorf("unexpected cancel event %+v", last)
	}

	if _, err := e.service.Booking.Cancel(ctx, e.user, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown booking, got %v", err)
	}
}

func TestBookingService_Review(t *testing.T) {
	ctx := context.Background()
	e := newEnv(UniqueSlotScopeActive)

	created, err := e.service.Booking.Create(ctx, e.user, e.hall.ID.String(), bookingReq("2025-03-15", "10:00", "12:00", 80))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := e.service.Booking.Approve(ctx, e.user, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for non staff, got %v", err)
	}
	if _, err := e.service.Booking.ListPending(ctx, e.user); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for non staff, got %v", err)
	}

	pending, err := e.service.Booking.ListPending(ctx, e.staff)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != created.ID {
		t.Fatalf("expected the new booking in the queue, got %+v", pending)
	}

	approved, err := e.service.Booking.Approve(ctx, e.staff, created.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != entity.BookingStatusApproved {
		t.Errorf("expected approved, got %s", approved.Status)
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != e.staff.UserID.String() {
		t.Errorf("expected approved_by %s, got %v", e.staff.UserID, approved.ApprovedBy)
	}

	if _, err := e.service.Booking.Reject(ctx, e.staff, created.ID, "too late"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	// the owner may still cancel an approved booking
	if _, err := e.service.Booking.Cancel(ctx, e.user, created.ID); err != nil {
		t.Fatalf("cancel approved: %v", err)
	}
}

func TestBookingService_Reject(t *testing.T) {
	ctx := context.Background()
	e := newEnv(UniqueSlotScopeActive)

	created, err := e.service.Booking.Create(ctx, e.user, e.hall.ID.String(), bookingReq("2025-03-15", "10:00", "12:00", 80))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rejected, err := e.service.Booking.Reject(ctx, e.staff, created.ID, "Hall under maintenance")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.RejectionReason == nil || *rejected.RejectionReason != "Hall under maintenance" {
		t.Errorf("expected rejection reason, got %v", rejected.RejectionReason)
	}

	confirmation, err := e.service.Booking.GetConfirmation(ctx, e.user, created.ID)
	if err != nil {
		t.Fatalf("confirmation: %v", err)
	}
	if confirmation.Status != entity.BookingStatusRejected {
		t.Errorf("expected rejected, got %s", confirmation.Status)
	}

	if _, err := e.service.Booking.GetConfirmation(ctx, e.other, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for another user, got %v", err)
	}

	events := e.publisher.Events()
	last := events[len(events)-1]
	if last.Reason == nil || *last.Reason != "Hall under maintenance" {
		t.Errorf("expected reason on event, got %+v", last)
	}
}

func TestBookingService_BulkReview(t *testing.T) {
	ctx := context.Background()
	e := newEnv(UniqueSlotScopeActive)

	var ids []string
	for _, slot := range [][2]string{{"08:00", "09:00"}, {"09:00", "10:00"}, {"10:00", "11:00"}} {
		resp, err := e.service.Booking.Create(ctx, e.user, e.hall.ID.String(), bookingReq("2025-03-15", slot[0], slot[1], 10))
		if err != nil {
			t.Fatalf("create %s: %v", slot[0], err)
		}
		ids = append(ids, resp.ID)
	}

	if _, err := e.service.Booking.Cancel(ctx, e.user, ids[2]); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	req := &request.BulkReviewRequest{
		BookingIDs: append(ids, uuid.NewString()),
		Action:     "approve",
	}
	resp, err := e.service.Booking.BulkReview(ctx, e.staff, req)
	if err != nil {
		t.Fatalf("bulk review: %v", err)
	}
	if resp.Updated != 2 {
		t.Errorf("expected 2 updated, got %d", resp.Updated)
	}

	for i, want := range []entity.BookingStatus{
		entity.BookingStatusApproved,
		entity.BookingStatusApproved,
		entity.BookingStatusCancelled,
	} {
		if got := e.store.Booking(uuid.MustParse(ids[i])).Status; got != want {
			t.Errorf("booking %d: expected %s, got %s", i, want, got)
		}
	}

	if _, err := e.service.Booking.BulkReview(ctx, e.staff, &request.BulkReviewRequest{BookingIDs: ids, Action: "archive"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown action, got %v", err)
	}
	if _, err := e.service.Booking.BulkReview(ctx, e.user, req); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for non staff, got %v", err)
	}
}

func TestBookingService_ListMine(t *testing.T) {
	ctx := context.Background()
	e := newEnv(UniqueSlotScopeActive)

	first, err := e.service.Booking.Create(ctx, e.user, e.hall.ID.String(), bookingReq("2025-03-15", "10:00", "12:00", 80))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := e.service.Booking.Create(ctx, e.user, e.hall.ID.String(), bookingReq("2025-03-16", "10:00", "12:00", 80)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := e.service.Booking.Create(ctx, e.other, e.hall.ID.String(), bookingReq("2025-03-17", "10:00", "12:00", 80)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := e.service.Booking.Approve(ctx, e.staff, first.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	mine, err := e.service.Booking.ListMine(ctx, e.user)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine.Bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(mine.Bookings))
	}
	if mine.PendingCount != 1 || mine.ApprovedCount != 1 {
		t.Errorf("expected 1 pending and 1 approved, got %d and %d", mine.PendingCount, mine.ApprovedCount)
	}
	for _, b := range mine.Bookings {
		if b.UserID != e.user.UserID.String() {
			t.Errorf("unexpected booking of %s in list", b.UserID)
		}
		if b.HallName != e.hall.Name {
			t.Errorf("expected hall name %q, got %q", e.hall.Name, b.HallName)
		}
	}
}

func TestBookingService_FormContext(t *testing.T) {
	e := newEnv(UniqueSlotScopeActive)

	form, err := e.service.Booking.FormContext(context.Background(), e.hall.ID.String())
	if err != nil {
		t.Fatalf("form context: %v", err)
	}
	if form.Capacity != 100 || form.Today != "2025-03-10" || len(form.Faculties) != 3 {
		t.Errorf("unexpected form context %+v", form)
	}

	if _, err := e.service.Booking.FormContext(context.Background(), uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBookingService_IsHallAvailable(t *testing.T) {
	ctx := context.Background()
	e := newEnv(UniqueSlotScopeActive)
	hallID := e.hall.ID.String()

	if !e.service.Booking.IsHallAvailable(ctx, hallID, "2025-03-15") {
		t.Fatal("expected empty date to be available")
	}

	created, err := e.service.Booking.Create(ctx, e.user, hallID, bookingReq("2025-03-15", "10:00", "12:00", 80))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// creation drops the cached answer
	if e.service.Booking.IsHallAvailable(ctx, hallID, "2025-03-15") {
		t.Fatal("expected date with a pending booking to be unavailable")
	}
	if !e.service.Booking.IsHallAvailable(ctx, hallID, "2025-03-16") {
		t.Error("expected next day to be available")
	}

	if _, err := e.service.Booking.Cancel(ctx, e.user, created.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !e.service.Booking.IsHallAvailable(ctx, hallID, "2025-03-15") {
		t.Fatal("expected date to be available again after cancel")
	}

	for name, args := range map[string][2]string{
		"unknown hall":   {uuid.NewString(), "2025-03-15"},
		"malformed hall": {"abc", "2025-03-15"},
		"malformed date": {hallID, "15-03-2025"},
		"missing date":   {hallID, ""},
		"missing hall":   {"", "2025-03-15"},
	} {
		if e.service.Booking.IsHallAvailable(ctx, args[0], args[1]) {
			t.Errorf("%s: expected false", name)
		}
	}
}

func TestBookingService_PublishFailureIgnored(t *testing.T) {
	e := newEnv(UniqueSlotScopeActive)
	e.publisher.err = errors.New("broker down")

	if _, err := e.service.Booking.Create(context.Background(), e.user, e.hall.ID.String(), bookingReq("2025-03-15", "10:00", "12:00", 80)); err != nil {
		t.Fatalf("expected publish failure to be ignored, got %v", err)
	}
}

func TestBookingService_CreateConcurrentSameSlot(t *testing.T) {
	ctx := context.Background()
	e := newEnv(UniqueSlotScopeActive)

	const submitters = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		failures []error
	)

	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			actor := entity.Actor{UserID: uuid.New(), Role: entity.RoleUser}
			_, err := e.service.Booking.Create(ctx, actor, e.hall.ID.String(), bookingReq("2025-03-15", "10:00", "12:00", 80))

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				accepted++
				return
			}
			failures = append(failures, err)
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Fatalf("expected exactly one accepted booking, got %d", accepted)
	}
	for _, err := range failures {
		if !IsConflict(err) {
			t.Errorf("expected a slot conflict, got %v", err)
		}
	}
	if e.service.Booking.IsHallAvailable(ctx, e.hall.ID.String(), "2025-03-15") {
		t.Error("expected the hall to be booked on that date")
	}
}

// changeDuringRead books the slot while an availability read is in flight,
// after the read has already seen an empty date.
type changeDuringRead struct {
	repository.BookingRepository
	during func()
}

func (r *changeDuringRead) ExistsActiveOnDate(ctx context.Context, hallID uuid.UUID, date time.Time) (bool, error) {
	busy, err := r.BookingRepository.ExistsActiveOnDate(ctx, hallID, date)
	if r.during != nil {
		during := r.during
		r.during = nil
		during()
	}
	return busy, err
}

func TestBookingService_IsHallAvailableSkipsCacheOnConcurrentChange(t *testing.T) {
	ctx := context.Background()
	e := newEnv(UniqueSlotScopeActive)

	repo := e.store.Repository()
	bookings := &changeDuringRead{BookingRepository: repo.Booking}
	repo.Booking = bookings

	opts := Options{Publisher: e.publisher, Cache: e.cache, Clock: func() time.Time { return testNow }}
	service := NewService(repo, testConfig(UniqueSlotScopeActive), opts, zap.NewNop())

	hallID := e.hall.ID.String()
	bookings.during = func() {
		if _, err := service.Booking.Create(ctx, e.user, hallID, bookingReq("2025-03-15", "10:00", "12:00", 80)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// the in-flight read may answer with what it saw
	if !service.Booking.IsHallAvailable(ctx, hallID, "2025-03-15") {
		t.Fatal("expected the read that began before the booking to answer true")
	}
	if _, cached := e.cache.Get(ctx, e.hall.ID, testDay); cached {
		t.Fatal("expected no cached answer for a read that overlapped a change")
	}
	if service.Booking.IsHallAvailable(ctx, hallID, "2025-03-15") {
		t.Error("expected the next read to see the booking")
	}
}
