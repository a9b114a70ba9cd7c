package request

import (
	"testing"

	"hall-booking/pkg/utils"
)

func TestNewPaginatedRequest(t *testing.T) {
	tests := []struct {
		page, perPage     string
		wantPage, wantPer int
		wantOffset        int
	}{
		{"", "", 1, DefaultPerPage, 0},
		{"3", "20", 3, 20, 40},
		{"x", "-1", 1, DefaultPerPage, 0},
		{"2", "1000", 2, MaxPerPage, 100},
	}
	for _, tt := range tests {
		req := NewPaginatedRequest(tt.page, tt.perPage)
		if req.Page != tt.wantPage || req.Limit() != tt.wantPer || req.Offset() != tt.wantOffset {
			t.Errorf("NewPaginatedRequest(%q, %q) = page %d limit %d offset %d",
				tt.page, tt.perPage, req.Page, req.Limit(), req.Offset())
		}
	}
}

func TestCreateBookingRequestValidation(t *testing.T) {
	valid := CreateBookingRequest{
		BookingDate:       "2025-03-15",
		StartTime:         "09:00",
		EndTime:           "11:30",
		Purpose:           "Orientation",
		ExpectedAttendees: 120,
		Faculty:           "Commerce",
	}
	if errs := utils.ValidateStruct(valid); errs != nil {
		t.Fatalf("expected valid request, got %v", errs)
	}

	invalid := valid
	invalid.StartTime = "9"
	invalid.ExpectedAttendees = 0
	invalid.Faculty = "Law"
	errs := utils.ValidateStruct(invalid)
	for _, field := range []string{"StartTime", "ExpectedAttendees", "Faculty"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error on %s, got %v", field, errs)
		}
	}
}

func TestBulkReviewRequestValidation(t *testing.T) {
	req := BulkReviewRequest{BookingIDs: []string{"not-a-uuid"}, Action: "approve"}
	if errs := utils.ValidateStruct(req); len(errs) == 0 {
		t.Fatal("expected malformed id to be rejected")
	}

	req.BookingIDs = nil
	if errs := utils.ValidateStruct(req); len(errs) == 0 {
		t.Fatal("expected empty id list to be rejected")
	}
}
