package state

import (
	"testing"
	"time"

	"github.com/five82/stayer/internal/api"
)

func TestNewStore_InitialSnapshot(t *testing.T) {
	s := NewStore("Atlantis")
	snap := s.Snapshot()
	if snap.City != DefaultCity {
		t.Fatalf("City = %q, want %q", snap.City, DefaultCity)
	}
	if snap.AuthorizationStatus != AuthUnknown {
		t.Fatalf("AuthorizationStatus = %v, want UNKNOWN", snap.AuthorizationStatus)
	}
	if snap.Sorting != SortPopular {
		t.Fatalf("Sorting = %v, want Popular", snap.Sorting.Label())
	}
	if NewStore("Hamburg").Snapshot().City != "Hamburg" {
		t.Fatalf("NewStore should keep a known city")
	}
}

func TestStore_SnapshotIsIndependentCopy(t *testing.T) {
	s := NewStore("")
	s.SetOffers([]api.Offer{{ID: "1", Goods: []string{"Wi-Fi"}, Host: &api.Host{Name: "Ann"}}})
	s.SetUser(&api.UserData{Email: "a@b.c"})
	s.SetOfferDetail(&api.Offer{ID: "1", Images: []string{"a.jpg"}})

	before := time.Now()
	snap := s.Snapshot()
	snap.Offers[0].ID = "999"
	snap.Offers[0].Goods[0] = "changed"
	snap.Offers[0].Host.Name = "changed"
	snap.User.Email = "changed"
	snap.OfferDetail.Images[0] = "changed"

	again := s.Snapshot()
	if again.Offers[0].ID != "1" || again.Offers[0].Goods[0] != "Wi-Fi" || again.Offers[0].Host.Name != "Ann" {
		t.Fatalf("offers leaked through snapshot: %#v", again.Offers[0])
	}
	if again.User.Email != "a@b.c" {
		t.Fatalf("user leaked through snapshot: %#v", again.User)
	}
	if again.OfferDetail.Images[0] != "a.jpg" {
		t.Fatalf("detail leaked through snapshot: %#v", again.OfferDetail)
	}
	if again.LastUpdated.After(before) {
		t.Fatalf("Snapshot must not stamp LastUpdated")
	}
}

func TestStore_TransitionsStampLastUpdated(t *testing.T) {
	s := NewStore("")
	before := time.Now()
	s.SetCity("Amsterdam")
	snap := s.Snapshot()
	if snap.City != "Amsterdam" {
		t.Fatalf("City = %q, want Amsterdam", snap.City)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
}

func TestStore_LoadingFlagsAreIndependent(t *testing.T) {
	s := NewStore("")
	s.SetLoading(LoadingOffers, true)
	snap := s.Snapshot()
	if !snap.OffersLoading || snap.Loading {
		t.Fatalf("flags = offers:%v generic:%v, want true/false", snap.OffersLoading, snap.Loading)
	}
	s.SetLoading(LoadingGeneric, true)
	s.SetLoading(LoadingOffers, false)
	snap = s.Snapshot()
	if snap.OffersLoading || !snap.Loading || !snap.IsLoading() {
		t.Fatalf("flags = offers:%v generic:%v, want false/true", snap.OffersLoading, snap.Loading)
	}
}

func TestStore_ErrorSetAndClear(t *testing.T) {
	s := NewStore("")
	s.SetError("boom")
	if got := s.Snapshot().ErrorMessage; got != "boom" {
		t.Fatalf("ErrorMessage = %q, want boom", got)
	}
	s.ClearError()
	if got := s.Snapshot().ErrorMessage; got != "" {
		t.Fatalf("ErrorMessage = %q, want empty", got)
	}
}

func TestStore_UpdateOfferTouchesEveryCopy(t *testing.T) {
	s := NewStore("")
	s.SetOffers([]api.Offer{{ID: "1", Title: "List"}, {ID: "2"}})
	s.SetFavorites([]api.Offer{{ID: "1", IsFavorite: true}})
	s.SetNearbyOffers("2", []api.Offer{{ID: "1"}})
	s.SetOfferDetail(&api.Offer{ID: "1"})

	s.UpdateOffer(api.Offer{ID: "1", Title: "Detail", IsFavorite: true})

	snap := s.Snapshot()
	if !snap.Offers[0].IsFavorite || snap.Offers[0].Title != "List" {
		t.Fatalf("offers[0] = %#v, want favorite with list title", snap.Offers[0])
	}
	if snap.Offers[1].IsFavorite {
		t.Fatalf("offers[1] should be untouched")
	}
	if !snap.Nearby[0].IsFavorite || !snap.OfferDetail.IsFavorite || !snap.Favorites[0].IsFavorite {
		t.Fatalf("nearby/detail/favorites not updated: %#v", snap)
	}
}

func TestStore_SetNearbyOffersRemembersOffer(t *testing.T) {
	s := NewStore("")
	s.SetNearbyOffers("41", []api.Offer{{ID: "42"}, {ID: "43"}})

	snap := s.Snapshot()
	if snap.NearbyOfferID != "41" || len(snap.Nearby) != 2 {
		t.Fatalf("nearby = %q/%d, want 41/2", snap.NearbyOfferID, len(snap.Nearby))
	}

	s.SetNearbyOffers("42", nil)
	snap = s.Snapshot()
	if snap.NearbyOfferID != "42" || len(snap.Nearby) != 0 {
		t.Fatalf("nearby = %q/%d, want 42/0", snap.NearbyOfferID, len(snap.Nearby))
	}
}

func TestStore_ClearAuthorizationResetsFavorites(t *testing.T) {
	s := NewStore("")
	s.RequireAuthorization(Auth)
	s.SetUser(&api.UserData{Email: "a@b.c"})
	s.SetOffers([]api.Offer{{ID: "1", IsFavorite: true}})
	s.SetFavorites([]api.Offer{{ID: "1", IsFavorite: true}})
	s.SetOfferDetail(&api.Offer{ID: "1", IsFavorite: true})

	s.ClearAuthorization()

	snap := s.Snapshot()
	if snap.AuthorizationStatus != NoAuth || snap.User != nil || len(snap.Favorites) != 0 {
		t.Fatalf("snapshot = %#v, want NoAuth without user or favorites", snap)
	}
	if snap.Offers[0].IsFavorite || snap.OfferDetail.IsFavorite {
		t.Fatalf("favorite flags must be reset on logout")
	}
}

func TestStore_SetOfferCommentsReplaces(t *testing.T) {
	s := NewStore("")
	s.SetOfferComments("1", []api.Review{{ID: "a"}, {ID: "b"}})
	s.SetOfferComments("2", []api.Review{{ID: "c"}})

	snap := s.Snapshot()
	if snap.CommentsOfferID != "2" || len(snap.Comments) != 1 || snap.Comments[0].ID != "c" {
		t.Fatalf("comments = %q %#v, want offer 2 with one comment", snap.CommentsOfferID, snap.Comments)
	}
}

func TestSortOption_LabelsRoundTrip(t *testing.T) {
	for _, opt := range SortOptions {
		got, ok := ParseSortOption(opt.Label())
		if !ok || got != opt {
			t.Fatalf("ParseSortOption(%q) = %v, %v", opt.Label(), got, ok)
		}
	}
	if _, ok := ParseSortOption("cheapest"); ok {
		t.Fatalf("ParseSortOption should reject unknown labels")
	}
	if SortTopRated.Next() != SortPopular {
		t.Fatalf("Next should wrap around")
	}
}
