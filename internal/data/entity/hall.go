package entity

import "hall-booking/pkg/utils"

// Capacity tiers a hall may be configured with.
var CapacityTiers = []int{100, 200, 300, 500}

const DefaultHallImage = "hall-placeholder.jpg"

type Hall struct {
	Base
	Name        string `db:"name"`
	Capacity    int    `db:"capacity"`
	Location    string `db:"location"`
	Description string `db:"description"`
	Amenities   string `db:"amenities"`
	Image       string `db:"image"`
	Available   bool   `db:"available"`
}

func IsCapacityTier(capacity int) bool {
	for _, tier := range CapacityTiers {
		if tier == capacity {
			return true
		}
	}
	return false
}

// AmenitiesList returns the comma separated amenities, trimmed, without empties.
func (h *Hall) AmenitiesList() []string {
	return utils.SplitCommaList(h.Amenities)
}
