package response

import "hall-booking/internal/data/entity"

type DashboardResponse struct {
	TotalHalls     int64                          `json:"total_halls"`
	AvailableHalls int64                          `json:"available_halls"`
	TotalBookings  int64                          `json:"total_bookings"`
	StatusCounts   map[entity.BookingStatus]int64 `json:"status_counts"`
	TodayBookings  []BookingResponse              `json:"today_bookings"`
}

type HallReport struct {
	HallID    string `json:"hall_id"`
	HallName  string `json:"hall_name"`
	Pending   int64  `json:"pending"`
	Approved  int64  `json:"approved"`
	Rejected  int64  `json:"rejected"`
	Cancelled int64  `json:"cancelled"`
	Total     int64  `json:"total"`
}

type ReportResponse struct {
	Halls []HallReport `json:"halls"`
}

// Add counts n bookings of status into the report row.
func (r *HallReport) Add(status entity.BookingStatus, n int64) {
	switch status {
	case entity.BookingStatusPending:
		r.Pending += n
	case entity.BookingStatusApproved:
		r.Approved += n
	case entity.BookingStatusRejected:
		r.Rejected += n
	case entity.BookingStatusCancelled:
		r.Cancelled += n
	}
	r.Total += n
}
