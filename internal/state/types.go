package state

import "strings"

// AuthorizationStatus is the client's view of the session.
type AuthorizationStatus int

const (
	// AuthUnknown is the initial status until the auth probe answers.
	AuthUnknown AuthorizationStatus = iota
	Auth
	NoAuth
)

func (s AuthorizationStatus) String() string {
	switch s {
	case Auth:
		return "AUTH"
	case NoAuth:
		return "NO_AUTH"
	default:
		return "UNKNOWN"
	}
}

// SortOption orders the offer list.
type SortOption int

const (
	SortPopular SortOption = iota
	SortPriceLowToHigh
	SortPriceHighToLow
	SortTopRated
)

// SortOptions lists every option in display order.
var SortOptions = []SortOption{SortPopular, SortPriceLowToHigh, SortPriceHighToLow, SortTopRated}

// Label returns the display label.
func (o SortOption) Label() string {
	switch o {
	case SortPriceLowToHigh:
		return "Price: low to high"
	case SortPriceHighToLow:
		return "Price: high to low"
	case SortTopRated:
		return "Top rated first"
	default:
		return "Popular"
	}
}

// Next returns the option after o, wrapping around.
func (o SortOption) Next() SortOption {
	for i, opt := range SortOptions {
		if opt == o {
			return SortOptions[(i+1)%len(SortOptions)]
		}
	}
	return SortPopular
}

// ParseSortOption maps a label back to its option. Unknown labels report
// false and SortPopular.
func ParseSortOption(label string) (SortOption, bool) {
	trimmed := strings.TrimSpace(label)
	for _, opt := range SortOptions {
		if strings.EqualFold(opt.Label(), trimmed) {
			return opt, true
		}
	}
	return SortPopular, false
}

// LoadingFlag names a loading indicator in the snapshot.
type LoadingFlag int

const (
	// LoadingOffers covers the offer list.
	LoadingOffers LoadingFlag = iota
	// LoadingGeneric covers detail fetches and comment posting. The web
	// client reused the offers flag for those; a separate flag keeps the
	// offer list from flashing its spinner while a detail page loads.
	LoadingGeneric
)

// Cities is the fixed list of cities the marketplace serves.
var Cities = []string{"Paris", "Cologne", "Brussels", "Amsterdam", "Hamburg", "Dusseldorf"}

// DefaultCity is selected on first start.
const DefaultCity = "Paris"

// IsKnownCity reports whether name is one of Cities.
func IsKnownCity(name string) bool {
	for _, c := range Cities {
		if c == name {
			return true
		}
	}
	return false
}
