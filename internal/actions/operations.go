package actions

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/five82/stayer/internal/api"
)

// Operation is one of the synchronization actions. The set is closed: only
// the types in this file implement it.
type Operation interface {
	Name() string
	isOperation()
}

type (
	FetchOffers        struct{}
	SyncOffers         struct{}
	CheckAuth          struct{}
	Login              struct{ Credentials api.AuthData }
	Logout             struct{}
	FetchOfferDetail   struct{ OfferID string }
	FetchOfferComments struct{ OfferID string }
	FetchNearbyOffers  struct{ OfferID string }
	FetchFavorites     struct{}

	PostComment struct {
		OfferID string
		Text    string
		Rating  int
	}

	ToggleFavorite struct {
		OfferID  string
		Favorite bool
	}

	// DismissError hides the banner now. ID is the Result.ErrorID of the
	// failure being dismissed; uuid.Nil only clears the message.
	DismissError struct{ ID uuid.UUID }
)

func (FetchOffers) Name() string        { return "data/fetchOffers" }
func (SyncOffers) Name() string         { return "data/syncOffers" }
func (CheckAuth) Name() string          { return "user/checkAuth" }
func (Login) Name() string              { return "user/login" }
func (Logout) Name() string             { return "user/logout" }
func (FetchOfferDetail) Name() string   { return "data/fetchOfferDetails" }
func (FetchOfferComments) Name() string { return "data/fetchOfferComments" }
func (FetchNearbyOffers) Name() string  { return "data/fetchNearbyOffers" }
func (PostComment) Name() string        { return "data/postComment" }
func (FetchFavorites) Name() string     { return "offers/fetchFavorites" }
func (ToggleFavorite) Name() string     { return "offers/toggleFavorite" }
func (DismissError) Name() string       { return "ui/dismissError" }

func (FetchOffers) isOperation()        {}
func (SyncOffers) isOperation()         {}
func (CheckAuth) isOperation()          {}
func (Login) isOperation()              {}
func (Logout) isOperation()             {}
func (FetchOfferDetail) isOperation()   {}
func (FetchOfferComments) isOperation() {}
func (FetchNearbyOffers) isOperation()  {}
func (PostComment) isOperation()        {}
func (FetchFavorites) isOperation()     {}
func (ToggleFavorite) isOperation()     {}
func (DismissError) isOperation()       {}

// Result carries the payload of the operations that return one. ErrorID is
// the occurrence id of the error message the operation put on screen; pass
// it to DismissError to hide that message before its clear fires.
type Result struct {
	User      *api.UserData // Login
	Comments  []api.Review  // PostComment
	Favorites []api.Offer   // FetchFavorites
	ErrorID   uuid.UUID
}

// Dispatch runs op. Only Login, Logout, PostComment and SyncOffers can return
// an error; the other operations report failures through the store.
func (d *Dispatcher) Dispatch(ctx context.Context, op Operation) (Result, error) {
	switch op := op.(type) {
	case FetchOffers:
		return Result{ErrorID: d.FetchOffers(ctx)}, nil
	case SyncOffers:
		return Result{}, d.SyncOffers(ctx)
	case CheckAuth:
		d.CheckAuth(ctx)
	case Login:
		user, err := d.Login(ctx, op.Credentials)
		if err != nil {
			return Result{}, err
		}
		return Result{User: &user}, nil
	case Logout:
		return Result{}, d.Logout(ctx)
	case FetchOfferDetail:
		return Result{ErrorID: d.FetchOfferDetail(ctx, op.OfferID)}, nil
	case FetchOfferComments:
		return Result{ErrorID: d.FetchOfferComments(ctx, op.OfferID)}, nil
	case FetchNearbyOffers:
		return Result{ErrorID: d.FetchNearbyOffers(ctx, op.OfferID)}, nil
	case PostComment:
		reviews, id, err := d.postComment(ctx, op.OfferID, op.Text, op.Rating)
		if err != nil {
			return Result{ErrorID: id}, err
		}
		return Result{Comments: reviews}, nil
	case FetchFavorites:
		favorites, id := d.fetchFavorites(ctx)
		return Result{Favorites: favorites, ErrorID: id}, nil
	case ToggleFavorite:
		return Result{ErrorID: d.ToggleFavorite(ctx, op.OfferID, op.Favorite)}, nil
	case DismissError:
		d.DismissError(op.ID)
	default:
		return Result{}, fmt.Errorf("unknown operation %T", op)
	}
	return Result{}, nil
}
