package response

import (
	"time"

	"hall-booking/internal/data/entity"
)

type HallResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Capacity      int       `json:"capacity"`
	Location      string    `json:"location"`
	Description   string    `json:"description"`
	Amenities     string    `json:"amenities"`
	AmenitiesList []string  `json:"amenities_list"`
	Image         string    `json:"image"`
	Available     bool      `json:"available"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type HallListResponse struct {
	Halls      []HallResponse `json:"halls"`
	TotalHalls int            `json:"total_halls"`
}

type HallDetailResponse struct {
	Hall     HallResponse      `json:"hall"`
	Bookings []BookingResponse `json:"bookings"`
}

func HallToResponse(hall *entity.Hall) HallResponse {
	return HallResponse{
		ID:            hall.ID.String(),
		Name:          hall.Name,
		Capacity:      hall.Capacity,
		Location:      hall.Location,
		Description:   hall.Description,
		Amenities:     hall.Amenities,
		AmenitiesList: hall.AmenitiesList(),
		Image:         hall.Image,
		Available:     hall.Available,
		CreatedAt:     hall.CreatedAt,
		UpdatedAt:     hall.UpdatedAt,
	}
}

func HallsToResponse(halls []*entity.Hall) []HallResponse {
	out := make([]HallResponse, 0, len(halls))
	for _, hall := range halls {
		out = append(out, HallToResponse(hall))
	}
	return out
}
