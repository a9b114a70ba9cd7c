package request

type CreateBookingRequest struct {
	BookingDate       string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	StartTime         string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime           string `json:"end_time" validate:"required,datetime=15:04"`
	Purpose           string `json:"purpose" validate:"required,max=200"`
	ExpectedAttendees int    `json:"expected_attendees" validate:"required,gt=0"`
	Faculty           string `json:"faculty" validate:"omitempty,oneof=Arts Commerce Science"`
}

type RejectBookingRequest struct {
	RejectionReason string `json:"rejection_reason" validate:"max=500"`
}

type BulkReviewRequest struct {
	BookingIDs      []string `json:"booking_ids" validate:"required,min=1,dive,uuid"`
	Action          string   `json:"action" validate:"required,oneof=approve reject"`
	RejectionReason string   `json:"rejection_reason" validate:"max=500"`
}

type AvailabilityQuery struct {
	HallID string `validate:"required,uuid"`
	Date   string `validate:"required,datetime=2006-01-02"`
}
