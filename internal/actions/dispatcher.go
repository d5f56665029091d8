package actions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/five82/stayer/internal/api"
	"github.com/five82/stayer/internal/state"
)

// Messages shown to the user when an action fails.
const (
	MsgFetchOffers    = "Something went wrong. Please check your connection and try again."
	MsgFetchDetails   = "Unable to fetch offer details. Please try again later."
	MsgFetchComments  = "Unable to fetch offer comments. Please try again later."
	MsgFetchNearby    = "Unable to fetch nearby offers. Please try again later."
	MsgPostComment    = "Unable to post comment. Please try again later."
	MsgFetchFavorites = "Failed to get the list of favorite offers. Please, try again."
	MsgToggleFavorite = "Failed to change the status of the favorite offer. Please, try again."
)

// DefaultErrorTimeout is how long an error message stays visible.
const DefaultErrorTimeout = 2 * time.Second

// CredentialStore persists the session token and email outside the snapshot.
type CredentialStore interface {
	SaveToken(token string) error
	DropToken() error
	SaveEmail(email string) error
	DropEmail() error
}

// Options configure a Dispatcher.
type Options struct {
	ErrorTimeout time.Duration // zero uses DefaultErrorTimeout
	ClearPolicy  ClearPolicy
	Logger       *slog.Logger // nil discards
}

// Dispatcher runs synchronization actions: each one calls the remote API and
// applies the resulting transitions to the store.
type Dispatcher struct {
	remote      api.Remote
	store       *state.Store
	credentials CredentialStore
	errors      *errorReporter
	logger      *slog.Logger
}

// New builds a Dispatcher.
func New(remote api.Remote, store *state.Store, credentials CredentialStore, opts Options) (*Dispatcher, error) {
	if remote == nil {
		return nil, errors.New("actions require a remote client")
	}
	if store == nil {
		return nil, errors.New("actions require a store")
	}
	if credentials == nil {
		return nil, errors.New("actions require a credential store")
	}
	timeout := opts.ErrorTimeout
	if timeout <= 0 {
		timeout = DefaultErrorTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		remote:      remote,
		store:       store,
		credentials: credentials,
		errors:      newErrorReporter(store, timeout, opts.ClearPolicy),
		logger:      logger,
	}, nil
}

// Store returns the store the dispatcher writes to.
func (d *Dispatcher) Store() *state.Store {
	return d.store
}

// Close cancels every pending error clear.
func (d *Dispatcher) Close() {
	d.errors.stop()
}

// CancelErrorClear stops a pending clear by its occurrence id. It reports
// whether the clear was still pending.
func (d *Dispatcher) CancelErrorClear(id uuid.UUID) bool {
	return d.errors.cancel(id)
}

func (d *Dispatcher) fail(op, message string, err error) uuid.UUID {
	d.logger.Warn("action failed", "action", op, "error", err)
	return d.errors.report(message)
}

func (d *Dispatcher) withLoading(flag state.LoadingFlag) func() {
	d.store.SetLoading(flag, true)
	return func() { d.store.SetLoading(flag, false) }
}

// DismissError removes the current error message now and cancels the clear
// scheduled for id, if it is still pending.
func (d *Dispatcher) DismissError(id uuid.UUID) {
	if id != uuid.Nil {
		d.errors.cancel(id)
	}
	d.store.ClearError()
}

// FetchOffers replaces the offer list. Failures are shown to the user, not
// returned; the result is the occurrence id of the shown error, uuid.Nil on
// success. The other fire-and-forget actions follow the same contract.
func (d *Dispatcher) FetchOffers(ctx context.Context) uuid.UUID {
	defer d.withLoading(state.LoadingOffers)()

	offers, err := d.remote.FetchOffers(ctx)
	if err != nil {
		return d.fail("fetch offers", MsgFetchOffers, err)
	}
	d.store.SetOffers(offers)
	d.logger.Debug("offers loaded", "count", len(offers))
	return uuid.Nil
}

// SyncOffers refreshes the offer list in the background: no loading flag and
// no error message. The error is returned for the caller's backoff.
func (d *Dispatcher) SyncOffers(ctx context.Context) error {
	offers, err := d.remote.FetchOffers(ctx)
	if err != nil {
		return fmt.Errorf("sync offers: %w", err)
	}
	d.store.SetOffers(offers)
	return nil
}

// CheckAuth probes the session and sets Auth or NoAuth. A failed probe is the
// normal anonymous case and is never shown as an error.
func (d *Dispatcher) CheckAuth(ctx context.Context) {
	user, err := d.remote.CheckAuth(ctx)
	if err != nil {
		if !api.IsUnauthorized(err) {
			d.logger.Info("auth probe failed", "error", err)
		}
		d.store.RequireAuthorization(state.NoAuth)
		return
	}
	if user.Email != "" {
		d.store.SetUser(&user)
	}
	d.store.RequireAuthorization(state.Auth)
}

// Login authenticates, persists the token and email, and sets Auth. Errors
// are returned for the caller to show.
func (d *Dispatcher) Login(ctx context.Context, auth api.AuthData) (api.UserData, error) {
	user, err := d.remote.Login(ctx, auth)
	if err != nil {
		return api.UserData{}, fmt.Errorf("login: %w", err)
	}
	if err := d.credentials.SaveToken(user.Token); err != nil {
		return api.UserData{}, fmt.Errorf("save token: %w", err)
	}
	if err := d.credentials.SaveEmail(user.Email); err != nil {
		if dropErr := d.credentials.DropToken(); dropErr != nil {
			err = errors.Join(err, fmt.Errorf("drop token: %w", dropErr))
		}
		return api.UserData{}, fmt.Errorf("save email: %w", err)
	}
	d.store.SetUser(&user)
	d.store.RequireAuthorization(state.Auth)
	d.logger.Info("logged in", "email", user.Email)
	return user, nil
}

// Logout ends the session, drops the persisted token and email, and sets
// NoAuth. When the API call fails nothing changes and the error is returned.
func (d *Dispatcher) Logout(ctx context.Context) error {
	if err := d.remote.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	var errs []error
	if err := d.credentials.DropToken(); err != nil {
		errs = append(errs, fmt.Errorf("drop token: %w", err))
	}
	if err := d.credentials.DropEmail(); err != nil {
		errs = append(errs, fmt.Errorf("drop email: %w", err))
	}
	d.store.ClearAuthorization()
	d.logger.Info("logged out")
	return errors.Join(errs...)
}

// FetchOfferDetail loads the full offer for the detail page.
func (d *Dispatcher) FetchOfferDetail(ctx context.Context, offerID string) uuid.UUID {
	defer d.withLoading(state.LoadingGeneric)()

	offer, err := d.remote.FetchOffer(ctx, offerID)
	if err != nil {
		return d.fail("fetch offer detail", MsgFetchDetails, err)
	}
	d.store.SetOfferDetail(&offer)
	return uuid.Nil
}

// FetchOfferComments replaces the comments with those of offerID.
func (d *Dispatcher) FetchOfferComments(ctx context.Context, offerID string) uuid.UUID {
	reviews, err := d.remote.FetchComments(ctx, offerID)
	if err != nil {
		return d.fail("fetch offer comments", MsgFetchComments, err)
	}
	d.store.SetOfferComments(offerID, reviews)
	return uuid.Nil
}

// FetchNearbyOffers replaces the nearby offers with those around offerID.
func (d *Dispatcher) FetchNearbyOffers(ctx context.Context, offerID string) uuid.UUID {
	nearby, err := d.remote.FetchNearby(ctx, offerID)
	if err != nil {
		return d.fail("fetch nearby offers", MsgFetchNearby, err)
	}
	d.store.SetNearbyOffers(offerID, nearby)
	return uuid.Nil
}

// PostComment submits a review and returns the updated review list without
// touching the store. On failure the error message is shown and the error is
// also returned so the caller can keep its draft.
func (d *Dispatcher) PostComment(ctx context.Context, offerID, text string, rating int) ([]api.Review, error) {
	reviews, _, err := d.postComment(ctx, offerID, text, rating)
	return reviews, err
}

func (d *Dispatcher) postComment(ctx context.Context, offerID, text string, rating int) ([]api.Review, uuid.UUID, error) {
	defer d.withLoading(state.LoadingGeneric)()

	reviews, err := d.remote.PostComment(ctx, offerID, api.CommentPost{Comment: text, Rating: rating})
	if err != nil {
		id := d.fail("post comment", MsgPostComment, err)
		return nil, id, fmt.Errorf("post comment: %w", err)
	}
	return reviews, uuid.Nil, nil
}

// FetchFavorites loads and stores the favorites list and returns it. On
// failure the error message is shown and an empty list is stored and
// returned.
func (d *Dispatcher) FetchFavorites(ctx context.Context) []api.Offer {
	favorites, _ := d.fetchFavorites(ctx)
	return favorites
}

func (d *Dispatcher) fetchFavorites(ctx context.Context) ([]api.Offer, uuid.UUID) {
	id := uuid.Nil
	favorites, err := d.remote.FetchFavorites(ctx)
	if err != nil {
		id = d.fail("fetch favorites", MsgFetchFavorites, err)
		favorites = []api.Offer{}
	}
	d.store.SetFavorites(favorites)
	return favorites, id
}

// ToggleFavorite sets the favorite status of offerID, applies the returned
// offer to the store, then reloads the favorites. A failed reload reports
// its own error id.
func (d *Dispatcher) ToggleFavorite(ctx context.Context, offerID string, favorite bool) uuid.UUID {
	offer, err := d.remote.SetFavorite(ctx, offerID, favorite)
	if err != nil {
		return d.fail("toggle favorite", MsgToggleFavorite, err)
	}
	d.store.UpdateOffer(offer)
	_, id := d.fetchFavorites(ctx)
	return id
}
