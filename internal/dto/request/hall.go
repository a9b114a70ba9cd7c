package request

type HallRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Capacity    int    `json:"capacity" validate:"required"`
	Location    string `json:"location" validate:"required,min=1,max=200"`
	Description string `json:"description"`
	Amenities   string `json:"amenities"`
	Image       string `json:"image" validate:"max=200"`
	Available   *bool  `json:"available,omitempty"`
}

type HallUpdateRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Capacity    *int    `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Location    *string `json:"location,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty"`
	Amenities   *string `json:"amenities,omitempty"`
	Image       *string `json:"image,omitempty" validate:"omitempty,max=200"`
	Available   *bool   `json:"available,omitempty"`
}
