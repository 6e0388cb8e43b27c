// Package filter applies compound listing predicates over an in-memory
// snapshot, the same single-pass AND semantics the mobile client used.
package filter

import "github.com/staco-app/directory-service/internal/directory/domain"

// Apply returns the listings satisfying every constraint present in
// spec, preserving the input's relative order. An empty spec returns
// the input unchanged. A min rent above the max rent is not an error;
// both bounds apply independently and the result is simply empty.
func Apply(listings []*domain.Listing, spec domain.FilterSpec) []*domain.Listing {
	if spec.Empty() {
		return listings
	}
	out := make([]*domain.Listing, 0, len(listings))
	for _, l := range listings {
		if matches(l, spec) {
			out = append(out, l)
		}
	}
	return out
}

func matches(l *domain.Listing, spec domain.FilterSpec) bool {
	if hd := spec.HouseDetails; hd != nil {
		if l.HouseDetails.Bedrooms != hd.Bedrooms || l.HouseDetails.Bathrooms != hd.Bathrooms {
			return false
		}
	}
	if spec.Gender != nil && l.Gender != *spec.Gender {
		return false
	}
	if spec.RoomType != nil && l.RoomType != *spec.RoomType {
		return false
	}
	if spec.MinRent != nil && l.RentAmount < *spec.MinRent {
		return false
	}
	if spec.MaxRent != nil && l.RentAmount > *spec.MaxRent {
		return false
	}
	if spec.MaxDistance != nil && l.DistanceFromUniversity > *spec.MaxDistance {
		return false
	}
	if spec.AvailableFrom != nil && l.AvailableFrom.Before(*spec.AvailableFrom) {
		return false
	}
	if spec.AvailableTo != nil && l.AvailableTo.After(*spec.AvailableTo) {
		return false
	}
	return true
}
