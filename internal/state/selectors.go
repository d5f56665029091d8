package state

import (
	"sort"

	"github.com/five82/stayer/internal/api"
)

// CityOffers returns the offers of the selected city ordered by the selected
// sort option. The snapshot is not modified.
func (s Snapshot) CityOffers() []api.Offer {
	return SortOffers(FilterByCity(s.Offers, s.City), s.Sorting)
}

// ActiveOffer returns the highlighted offer, or nil.
func (s Snapshot) ActiveOffer() *api.Offer {
	if s.ActiveOfferID == "" {
		return nil
	}
	for i := range s.Offers {
		if s.Offers[i].ID == s.ActiveOfferID {
			offer := s.Offers[i]
			return &offer
		}
	}
	return nil
}

// IsAuthorized reports whether the session is known to be authenticated.
func (s Snapshot) IsAuthorized() bool {
	return s.AuthorizationStatus == Auth
}

// IsLoading reports whether any loading flag is set.
func (s Snapshot) IsLoading() bool {
	return s.OffersLoading || s.Loading
}

// CityGroup is a city and its offers.
type CityGroup struct {
	City   string
	Offers []api.Offer
}

// FavoritesByCity groups favorites by city. Known cities come first in Cities
// order, then any other city in order of first appearance.
func (s Snapshot) FavoritesByCity() []CityGroup {
	byCity := make(map[string][]api.Offer)
	var extra []string
	for _, offer := range s.Favorites {
		name := offer.City.Name
		if _, seen := byCity[name]; !seen && !IsKnownCity(name) {
			extra = append(extra, name)
		}
		byCity[name] = append(byCity[name], offer)
	}

	var groups []CityGroup
	for _, name := range append(append([]string(nil), Cities...), extra...) {
		if offers, ok := byCity[name]; ok {
			groups = append(groups, CityGroup{City: name, Offers: offers})
		}
	}
	return groups
}

// FilterByCity returns a new slice holding the offers located in city.
func FilterByCity(offers []api.Offer, city string) []api.Offer {
	out := make([]api.Offer, 0, len(offers))
	for _, offer := range offers {
		if offer.City.Name == city {
			out = append(out, offer)
		}
	}
	return out
}

// SortOffers returns a stably sorted copy of offers. SortPopular keeps the
// fetch order.
func SortOffers(offers []api.Offer, opt SortOption) []api.Offer {
	out := make([]api.Offer, len(offers))
	copy(out, offers)

	var less func(a, b api.Offer) bool
	switch opt {
	case SortPriceLowToHigh:
		less = func(a, b api.Offer) bool { return a.Price < b.Price }
	case SortPriceHighToLow:
		less = func(a, b api.Offer) bool { return a.Price > b.Price }
	case SortTopRated:
		less = func(a, b api.Offer) bool { return a.Rating > b.Rating }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
