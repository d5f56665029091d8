package state

import (
	"sync"
	"time"

	"github.com/five82/stayer/internal/api"
)

// Snapshot is the complete client state at a point in time.
type Snapshot struct {
	City          string
	Offers        []api.Offer
	ActiveOfferID string
	Sorting       SortOption

	AuthorizationStatus AuthorizationStatus
	User                *api.UserData
	Favorites           []api.Offer

	OfferDetail     *api.Offer
	Comments        []api.Review
	CommentsOfferID string
	Nearby          []api.Offer
	NearbyOfferID   string

	ErrorMessage  string
	OffersLoading bool
	Loading       bool

	LastUpdated time.Time
}

// Store owns the snapshot. Every transition is a single locked
// read-modify-write, so readers never observe a half-applied transition.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStore returns a store with city selected. An unknown or empty city falls
// back to DefaultCity.
func NewStore(city string) *Store {
	if !IsKnownCity(city) {
		city = DefaultCity
	}
	return &Store{snapshot: Snapshot{City: city}}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Offers = cloneOffers(s.snapshot.Offers)
	snap.Favorites = cloneOffers(s.snapshot.Favorites)
	snap.Nearby = cloneOffers(s.snapshot.Nearby)
	snap.Comments = cloneReviews(s.snapshot.Comments)
	if s.snapshot.User != nil {
		user := *s.snapshot.User
		snap.User = &user
	}
	if s.snapshot.OfferDetail != nil {
		detail := cloneOffer(*s.snapshot.OfferDetail)
		snap.OfferDetail = &detail
	}
	return snap
}

func (s *Store) apply(mutate func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(&s.snapshot)
	s.snapshot.LastUpdated = time.Now()
}

// SetCity selects the city whose offers are listed.
func (s *Store) SetCity(city string) {
	s.apply(func(snap *Snapshot) { snap.City = city })
}

// SetOffers replaces the offer collection.
func (s *Store) SetOffers(offers []api.Offer) {
	offers = cloneOffers(offers)
	s.apply(func(snap *Snapshot) { snap.Offers = offers })
}

// SetActiveOffer highlights offerID; an empty id clears the highlight.
func (s *Store) SetActiveOffer(offerID string) {
	s.apply(func(snap *Snapshot) { snap.ActiveOfferID = offerID })
}

// SetSorting selects the sort option.
func (s *Store) SetSorting(opt SortOption) {
	s.apply(func(snap *Snapshot) { snap.Sorting = opt })
}

// RequireAuthorization sets the authorization status.
func (s *Store) RequireAuthorization(status AuthorizationStatus) {
	s.apply(func(snap *Snapshot) { snap.AuthorizationStatus = status })
}

// ClearAuthorization moves to NoAuth and forgets everything tied to the user:
// the user record, the favorites list and every favorite flag.
func (s *Store) ClearAuthorization() {
	s.apply(func(snap *Snapshot) {
		snap.AuthorizationStatus = NoAuth
		snap.User = nil
		snap.Favorites = nil
		for i := range snap.Offers {
			snap.Offers[i].IsFavorite = false
		}
		for i := range snap.Nearby {
			snap.Nearby[i].IsFavorite = false
		}
		if snap.OfferDetail != nil {
			snap.OfferDetail.IsFavorite = false
		}
	})
}

// SetUser sets the current user; nil clears it.
func (s *Store) SetUser(user *api.UserData) {
	if user != nil {
		dup := *user
		user = &dup
	}
	s.apply(func(snap *Snapshot) { snap.User = user })
}

// SetLoading sets one loading flag.
func (s *Store) SetLoading(flag LoadingFlag, loading bool) {
	s.apply(func(snap *Snapshot) {
		switch flag {
		case LoadingOffers:
			snap.OffersLoading = loading
		default:
			snap.Loading = loading
		}
	})
}

// SetError sets the user-visible error message.
func (s *Store) SetError(message string) {
	s.apply(func(snap *Snapshot) { snap.ErrorMessage = message })
}

// ClearError removes whatever error message is current.
func (s *Store) ClearError() {
	s.SetError("")
}

// SetOfferDetail stores the full offer shown on the detail page; nil clears it.
func (s *Store) SetOfferDetail(offer *api.Offer) {
	if offer != nil {
		dup := cloneOffer(*offer)
		offer = &dup
	}
	s.apply(func(snap *Snapshot) { snap.OfferDetail = offer })
}

// SetOfferComments replaces the comments, remembering which offer they
// belong to.
func (s *Store) SetOfferComments(offerID string, reviews []api.Review) {
	reviews = cloneReviews(reviews)
	s.apply(func(snap *Snapshot) {
		snap.CommentsOfferID = offerID
		snap.Comments = reviews
	})
}

// SetNearbyOffers replaces the nearby offers, remembering which offer they
// surround.
func (s *Store) SetNearbyOffers(offerID string, offers []api.Offer) {
	offers = cloneOffers(offers)
	s.apply(func(snap *Snapshot) {
		snap.NearbyOfferID = offerID
		snap.Nearby = offers
	})
}

// SetFavorites replaces the favorites list.
func (s *Store) SetFavorites(offers []api.Offer) {
	offers = cloneOffers(offers)
	s.apply(func(snap *Snapshot) { snap.Favorites = offers })
}

// UpdateOffer applies offer's favorite flag to every copy with the same id in
// the offers, favorites and nearby collections and the detail. The rest of an
// offer is immutable once loaded, so list entries keep their list shape.
func (s *Store) UpdateOffer(offer api.Offer) {
	s.apply(func(snap *Snapshot) {
		for _, list := range [][]api.Offer{snap.Offers, snap.Favorites, snap.Nearby} {
			for i := range list {
				if list[i].ID == offer.ID {
					list[i].IsFavorite = offer.IsFavorite
				}
			}
		}
		if snap.OfferDetail != nil && snap.OfferDetail.ID == offer.ID {
			snap.OfferDetail.IsFavorite = offer.IsFavorite
		}
	})
}

func cloneOffers(items []api.Offer) []api.Offer {
	if len(items) == 0 {
		return nil
	}
	dup := make([]api.Offer, len(items))
	for i, item := range items {
		dup[i] = cloneOffer(item)
	}
	return dup
}

func cloneOffer(o api.Offer) api.Offer {
	o.Goods = append([]string(nil), o.Goods...)
	o.Images = append([]string(nil), o.Images...)
	if o.Host != nil {
		host := *o.Host
		o.Host = &host
	}
	return o
}

func cloneReviews(items []api.Review) []api.Review {
	if len(items) == 0 {
		return nil
	}
	dup := make([]api.Review, len(items))
	copy(dup, items)
	return dup
}
