package actions

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/five82/stayer/internal/api"
	"github.com/five82/stayer/internal/state"
)

var errTransport = errors.New("execute request: connection refused")

type fakeRemote struct {
	offers    []api.Offer
	offer     api.Offer
	nearby    []api.Offer
	comments  []api.Review
	posted    []api.Review
	user      api.UserData
	favorites []api.Offer
	toggled   api.Offer
	err       error
	authErr   error

	onCall   func()
	lastPost api.CommentPost
}

func (f *fakeRemote) call() error {
	if f.onCall != nil {
		f.onCall()
	}
	return f.err
}

func (f *fakeRemote) FetchOffers(context.Context) ([]api.Offer, error) {
	return f.offers, f.call()
}
func (f *fakeRemote) FetchOffer(context.Context, string) (api.Offer, error) {
	return f.offer, f.call()
}
func (f *fakeRemote) FetchNearby(context.Context, string) ([]api.Offer, error) {
	return f.nearby, f.call()
}
func (f *fakeRemote) FetchComments(context.Context, string) ([]api.Review, error) {
	return f.comments, f.call()
}
func (f *fakeRemote) PostComment(_ context.Context, _ string, post api.CommentPost) ([]api.Review, error) {
	f.lastPost = post
	return f.posted, f.call()
}
func (f *fakeRemote) CheckAuth(context.Context) (api.UserData, error) {
	return f.user, f.authErr
}
func (f *fakeRemote) Login(context.Context, api.AuthData) (api.UserData, error) {
	return f.user, f.call()
}
func (f *fakeRemote) Logout(context.Context) error {
	return f.call()
}
func (f *fakeRemote) FetchFavorites(context.Context) ([]api.Offer, error) {
	return f.favorites, f.call()
}
func (f *fakeRemote) SetFavorite(context.Context, string, bool) (api.Offer, error) {
	return f.toggled, f.call()
}

type memCredentials struct {
	token, email string
	emailErr     error
}

func (m *memCredentials) SaveToken(token string) error { m.token = token; return nil }
func (m *memCredentials) DropToken() error             { m.token = ""; return nil }
func (m *memCredentials) DropEmail() error             { m.email = ""; return nil }

func (m *memCredentials) SaveEmail(email string) error {
	if m.emailErr != nil {
		return m.emailErr
	}
	m.email = email
	return nil
}

const testErrorTimeout = 50 * time.Millisecond

func newTestDispatcher(t *testing.T, remote api.Remote, creds CredentialStore, policy ClearPolicy) (*Dispatcher, *state.Store) {
	t.Helper()
	store := state.NewStore("Paris")
	if creds == nil {
		creds = &memCredentials{}
	}
	d, err := New(remote, store, creds, Options{ErrorTimeout: testErrorTimeout, ClearPolicy: policy})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(d.Close)
	return d, store
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func TestNew_RequiresDependencies(t *testing.T) {
	store := state.NewStore("")
	if _, err := New(nil, store, &memCredentials{}, Options{}); err == nil {
		t.Fatalf("New without remote returned nil error")
	}
	if _, err := New(&fakeRemote{}, nil, &memCredentials{}, Options{}); err == nil {
		t.Fatalf("New without store returned nil error")
	}
	if _, err := New(&fakeRemote{}, store, nil, Options{}); err == nil {
		t.Fatalf("New without credentials returned nil error")
	}
}

func TestFetchOffers_SetsLoadingAroundCall(t *testing.T) {
	remote := &fakeRemote{offers: []api.Offer{{ID: "1"}, {ID: "2"}}}
	d, store := newTestDispatcher(t, remote, nil, ClearIndependent)

	var loadingDuringCall bool
	remote.onCall = func() { loadingDuringCall = store.Snapshot().OffersLoading }

	d.FetchOffers(context.Background())

	snap := store.Snapshot()
	if !loadingDuringCall {
		t.Fatalf("OffersLoading was false during the remote call")
	}
	if snap.OffersLoading {
		t.Fatalf("OffersLoading still set after the action")
	}
	if len(snap.Offers) != 2 || snap.ErrorMessage != "" {
		t.Fatalf("snapshot = %#v, want 2 offers and no error", snap)
	}
}

func TestFetchOffers_FailureShowsAndClearsError(t *testing.T) {
	remote := &fakeRemote{offers: []api.Offer{{ID: "1"}}}
	d, store := newTestDispatcher(t, remote, nil, ClearIndependent)
	d.FetchOffers(context.Background())

	remote.err = errTransport
	d.FetchOffers(context.Background())

	snap := store.Snapshot()
	if snap.ErrorMessage != MsgFetchOffers {
		t.Fatalf("ErrorMessage = %q, want %q", snap.ErrorMessage, MsgFetchOffers)
	}
	if len(snap.Offers) != 1 || snap.OffersLoading {
		t.Fatalf("failure must keep offers and reset loading: %#v", snap)
	}
	if !waitFor(t, 10*testErrorTimeout, func() bool { return store.Snapshot().ErrorMessage == "" }) {
		t.Fatalf("error message was not cleared after the timeout")
	}
}

func TestFetchOfferComments_FailureExample(t *testing.T) {
	remote := &fakeRemote{comments: []api.Review{{ID: "a"}}}
	d, store := newTestDispatcher(t, remote, nil, ClearIndependent)
	d.FetchOfferComments(context.Background(), "42")

	remote.err = errTransport
	d.FetchOfferComments(context.Background(), "42")

	snap := store.Snapshot()
	if snap.ErrorMessage != "Unable to fetch offer comments. Please try again later." {
		t.Fatalf("ErrorMessage = %q", snap.ErrorMessage)
	}
	if snap.CommentsOfferID != "42" || len(snap.Comments) != 1 || snap.Comments[0].ID != "a" {
		t.Fatalf("comments changed on failure: %q %#v", snap.CommentsOfferID, snap.Comments)
	}
	if !waitFor(t, 10*testErrorTimeout, func() bool { return store.Snapshot().ErrorMessage == "" }) {
		t.Fatalf("error message was not cleared after the timeout")
	}
}

func TestDetailAndNearby(t *testing.T) {
	remote := &fakeRemote{
		offer:  api.Offer{ID: "7", Title: "Loft"},
		nearby: []api.Offer{{ID: "8"}, {ID: "9"}},
	}
	d, store := newTestDispatcher(t, remote, nil, ClearIndependent)

	var genericDuringCall bool
	remote.onCall = func() { genericDuringCall = store.Snapshot().Loading }
	d.FetchOfferDetail(context.Background(), "7")
	remote.onCall = nil
	d.FetchNearbyOffers(context.Background(), "7")

	snap := store.Snapshot()
	if !genericDuringCall || snap.Loading {
		t.Fatalf("generic loading during/after = %v/%v, want true/false", genericDuringCall, snap.Loading)
	}
	if snap.OfferDetail == nil || snap.OfferDetail.Title != "Loft" || len(snap.Nearby) != 2 {
		t.Fatalf("snapshot = %#v, want detail and two nearby offers", snap)
	}

	remote.err = errTransport
	d.FetchOfferDetail(context.Background(), "7")
	if got := store.Snapshot().ErrorMessage; got != MsgFetchDetails {
		t.Fatalf("ErrorMessage = %q, want %q", got, MsgFetchDetails)
	}
	d.FetchNearbyOffers(context.Background(), "7")
	if got := store.Snapshot(); got.ErrorMessage != MsgFetchNearby || len(got.Nearby) != 2 {
		t.Fatalf("snapshot = %q/%d nearby, want %q and unchanged list", got.ErrorMessage, len(got.Nearby), MsgFetchNearby)
	}
}

func TestCheckAuth(t *testing.T) {
	remote := &fakeRemote{authErr: &api.StatusError{Method: http.MethodGet, Path: "/login", StatusCode: http.StatusUnauthorized}}
	d, store := newTestDispatcher(t, remote, nil, ClearIndependent)

	d.CheckAuth(context.Background())
	snap := store.Snapshot()
	if snap.AuthorizationStatus != state.NoAuth || snap.ErrorMessage != "" {
		t.Fatalf("status/error = %v/%q, want NO_AUTH without message", snap.AuthorizationStatus, snap.ErrorMessage)
	}

	remote.authErr = errTransport
	d.CheckAuth(context.Background())
	if snap := store.Snapshot(); snap.AuthorizationStatus != state.NoAuth || snap.ErrorMessage != "" {
		t.Fatalf("transport failure: status/error = %v/%q, want NO_AUTH without message", snap.AuthorizationStatus, snap.ErrorMessage)
	}

	remote.authErr = nil
	remote.user = api.UserData{Email: "a@b.c"}
	d.CheckAuth(context.Background())
	snap = store.Snapshot()
	if snap.AuthorizationStatus != state.Auth || snap.User == nil || snap.User.Email != "a@b.c" {
		t.Fatalf("snapshot = %#v, want AUTH with user", snap)
	}
}

func TestLoginAndLogout(t *testing.T) {
	remote := &fakeRemote{user: api.UserData{Email: "a@b.c", Token: "T"}}
	creds := &memCredentials{}
	d, store := newTestDispatcher(t, remote, creds, ClearIndependent)

	user, err := d.Login(context.Background(), api.AuthData{Email: "a@b.c", Password: "a1"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.Token != "T" || creds.token != "T" || creds.email != "a@b.c" {
		t.Fatalf("credentials = %#v, want token T and email", creds)
	}
	snap := store.Snapshot()
	if snap.AuthorizationStatus != state.Auth || snap.User == nil {
		t.Fatalf("snapshot = %#v, want AUTH with user", snap)
	}

	if err := d.Logout(context.Background()); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	snap = store.Snapshot()
	if creds.token != "" || creds.email != "" {
		t.Fatalf("credentials = %#v, want both dropped", creds)
	}
	if snap.AuthorizationStatus != state.NoAuth || snap.User != nil {
		t.Fatalf("snapshot = %#v, want NO_AUTH without user", snap)
	}
}

func TestLogin_FailureIsReturnedNotShown(t *testing.T) {
	remote := &fakeRemote{err: &api.StatusError{StatusCode: http.StatusBadRequest}}
	creds := &memCredentials{}
	d, store := newTestDispatcher(t, remote, creds, ClearIndependent)

	if _, err := d.Login(context.Background(), api.AuthData{}); err == nil {
		t.Fatalf("Login returned nil error")
	}
	snap := store.Snapshot()
	if snap.AuthorizationStatus != state.AuthUnknown || snap.ErrorMessage != "" || creds.token != "" {
		t.Fatalf("failed login changed state: %#v %#v", snap, creds)
	}
}

func TestLogin_EmailSaveFailureDropsToken(t *testing.T) {
	remote := &fakeRemote{user: api.UserData{Email: "a@b.c", Token: "T"}}
	creds := &memCredentials{emailErr: errors.New("disk full")}
	d, store := newTestDispatcher(t, remote, creds, ClearIndependent)

	if _, err := d.Login(context.Background(), api.AuthData{Email: "a@b.c", Password: "a1"}); err == nil {
		t.Fatalf("Login returned nil error")
	}
	if creds.token != "" {
		t.Fatalf("token = %q, want dropped after email save failed", creds.token)
	}
	if snap := store.Snapshot(); snap.AuthorizationStatus == state.Auth || snap.User != nil {
		t.Fatalf("snapshot = %#v, want no session", snap)
	}
}

func TestLogout_FailureKeepsSession(t *testing.T) {
	remote := &fakeRemote{}
	creds := &memCredentials{token: "T", email: "a@b.c"}
	d, store := newTestDispatcher(t, remote, creds, ClearIndependent)
	store.RequireAuthorization(state.Auth)

	remote.err = errTransport
	if err := d.Logout(context.Background()); err == nil {
		t.Fatalf("Logout returned nil error")
	}
	if creds.token != "T" || store.Snapshot().AuthorizationStatus != state.Auth {
		t.Fatalf("failed logout dropped the session")
	}
}

func TestPostComment(t *testing.T) {
	remote := &fakeRemote{posted: []api.Review{{ID: "new"}}}
	d, store := newTestDispatcher(t, remote, nil, ClearIndependent)
	store.SetOfferComments("1", []api.Review{{ID: "old"}})

	reviews, err := d.PostComment(context.Background(), "1", "A lovely stay", 5)
	if err != nil {
		t.Fatalf("PostComment returned error: %v", err)
	}
	if len(reviews) != 1 || reviews[0].ID != "new" {
		t.Fatalf("reviews = %#v, want the posted list", reviews)
	}
	if remote.lastPost != (api.CommentPost{Comment: "A lovely stay", Rating: 5}) {
		t.Fatalf("posted body = %#v", remote.lastPost)
	}
	snap := store.Snapshot()
	if snap.Comments[0].ID != "old" {
		t.Fatalf("PostComment must not write comments to the store")
	}

	remote.err = errTransport
	if _, err := d.PostComment(context.Background(), "1", "again", 4); !errors.Is(err, errTransport) {
		t.Fatalf("PostComment error = %v, want wrapped transport error", err)
	}
	snap = store.Snapshot()
	if snap.ErrorMessage != MsgPostComment || snap.Loading {
		t.Fatalf("error/loading = %q/%v, want %q/false", snap.ErrorMessage, snap.Loading, MsgPostComment)
	}
}

func TestFetchFavorites_FailureDegradesToEmpty(t *testing.T) {
	remote := &fakeRemote{favorites: []api.Offer{{ID: "1", IsFavorite: true}}}
	d, store := newTestDispatcher(t, remote, nil, ClearIndependent)

	if got := d.FetchFavorites(context.Background()); len(got) != 1 {
		t.Fatalf("FetchFavorites = %#v, want one offer", got)
	}
	if len(store.Snapshot().Favorites) != 1 {
		t.Fatalf("favorites were not stored")
	}

	remote.err = errTransport
	got := d.FetchFavorites(context.Background())
	if got == nil || len(got) != 0 {
		t.Fatalf("FetchFavorites on failure = %#v, want empty non-nil list", got)
	}
	snap := store.Snapshot()
	if len(snap.Favorites) != 0 || snap.ErrorMessage != MsgFetchFavorites {
		t.Fatalf("snapshot = %d favorites / %q, want none and %q", len(snap.Favorites), snap.ErrorMessage, MsgFetchFavorites)
	}
}

func TestToggleFavorite_Failure(t *testing.T) {
	remote := &fakeRemote{err: errTransport}
	d, store := newTestDispatcher(t, remote, nil, ClearIndependent)
	store.SetOffers([]api.Offer{{ID: "1"}})

	d.ToggleFavorite(context.Background(), "1", true)

	snap := store.Snapshot()
	if snap.Offers[0].IsFavorite || snap.ErrorMessage != MsgToggleFavorite {
		t.Fatalf("snapshot = %#v, want unchanged offer and %q", snap, MsgToggleFavorite)
	}
}

func TestDispatch_RoutesOperations(t *testing.T) {
	remote := &fakeRemote{
		offers:    []api.Offer{{ID: "1"}},
		posted:    []api.Review{{ID: "r"}},
		favorites: []api.Offer{{ID: "1"}},
		user:      api.UserData{Email: "a@b.c", Token: "T"},
	}
	d, store := newTestDispatcher(t, remote, nil, ClearIndependent)
	ctx := context.Background()

	if _, err := d.Dispatch(ctx, FetchOffers{}); err != nil {
		t.Fatalf("Dispatch(FetchOffers): %v", err)
	}
	if len(store.Snapshot().Offers) != 1 {
		t.Fatalf("FetchOffers did not update the store")
	}

	res, err := d.Dispatch(ctx, Login{Credentials: api.AuthData{Email: "a@b.c", Password: "a1"}})
	if err != nil || res.User == nil || res.User.Token != "T" {
		t.Fatalf("Dispatch(Login) = %#v, %v", res, err)
	}

	res, err = d.Dispatch(ctx, PostComment{OfferID: "1", Text: "x", Rating: 3})
	if err != nil || !reflect.DeepEqual(res.Comments, remote.posted) {
		t.Fatalf("Dispatch(PostComment) = %#v, %v", res, err)
	}

	res, err = d.Dispatch(ctx, FetchFavorites{})
	if err != nil || len(res.Favorites) != 1 {
		t.Fatalf("Dispatch(FetchFavorites) = %#v, %v", res, err)
	}

	remote.err = errTransport
	if _, err := d.Dispatch(ctx, SyncOffers{}); !errors.Is(err, errTransport) {
		t.Fatalf("Dispatch(SyncOffers) error = %v, want transport error", err)
	}
	if store.Snapshot().ErrorMessage != "" {
		t.Fatalf("SyncOffers must not show an error message")
	}

	if _, err := d.Dispatch(ctx, nil); err == nil {
		t.Fatalf("Dispatch(nil) returned nil error")
	}

	names := map[string]bool{}
	for _, op := range []Operation{FetchOffers{}, SyncOffers{}, CheckAuth{}, Login{}, Logout{}, FetchOfferDetail{},
		FetchOfferComments{}, FetchNearbyOffers{}, PostComment{}, FetchFavorites{}, ToggleFavorite{}, DismissError{}} {
		if names[op.Name()] {
			t.Fatalf("duplicate operation name %q", op.Name())
		}
		names[op.Name()] = true
	}
}

func TestDispatch_ErrorIDDismissesBanner(t *testing.T) {
	remote := &fakeRemote{err: errTransport}
	d, store := newTestDispatcher(t, remote, nil, ClearIndependent)
	ctx := context.Background()

	res, err := d.Dispatch(ctx, FetchOfferDetail{OfferID: "7"})
	if err != nil {
		t.Fatalf("Dispatch(FetchOfferDetail): %v", err)
	}
	if res.ErrorID == uuid.Nil || store.Snapshot().ErrorMessage != MsgFetchDetails {
		t.Fatalf("result = %#v, message = %q, want error id and details message", res, store.Snapshot().ErrorMessage)
	}

	if _, err := d.Dispatch(ctx, DismissError{ID: res.ErrorID}); err != nil {
		t.Fatalf("Dispatch(DismissError): %v", err)
	}
	if got := store.Snapshot().ErrorMessage; got != "" {
		t.Fatalf("ErrorMessage = %q, want dismissed", got)
	}
	if d.errors.pendingCount() != 0 || d.CancelErrorClear(res.ErrorID) {
		t.Fatalf("clear for %s still pending after dismiss", res.ErrorID)
	}

	remote.err = nil
	if res, _ := d.Dispatch(ctx, FetchOffers{}); res.ErrorID != uuid.Nil {
		t.Fatalf("successful fetch returned error id %s", res.ErrorID)
	}
	remote.err = errTransport
	if res, err := d.Dispatch(ctx, PostComment{OfferID: "7", Text: "x", Rating: 3}); err == nil || res.ErrorID == uuid.Nil {
		t.Fatalf("Dispatch(PostComment) = %#v, %v, want error with id", res, err)
	}
}
