package mockapi

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/five82/stayer/internal/api"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	nearbyLimit      = 3
	minCommentLength = 50
	maxCommentLength = 300
)

// Server is an in-memory six cities API. It is safe for concurrent use.
type Server struct {
	mu        sync.Mutex
	offers    []api.Offer
	comments  map[string][]api.Review
	sessions  map[string]string          // token -> email
	favorites map[string]map[string]bool // email -> offer ids
	down      bool

	logger *slog.Logger
	router chi.Router
}

// New builds a server holding offers and reviews. A nil logger discards.
func New(offers []api.Offer, reviews map[string][]api.Review, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		offers:    append([]api.Offer(nil), offers...),
		comments:  make(map[string][]api.Review, len(reviews)),
		sessions:  make(map[string]string),
		favorites: make(map[string]map[string]bool),
		logger:    logger,
	}
	for id, list := range reviews {
		s.comments[id] = append([]api.Review(nil), list...)
	}
	s.router = s.routes()
	return s
}

// NewSeeded builds a server with the sample data from Seed.
func NewSeeded(logger *slog.Logger) *Server {
	offers, reviews := Seed()
	return New(offers, reviews, logger)
}

// SetDown makes every request fail with 503 until called with false.
func (s *Server) SetDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.outage)

	r.Get("/offers", s.handleOffers)
	r.Get("/offers/{id}", s.handleOffer)
	r.Get("/offers/{id}/nearby", s.handleNearby)

	r.Get("/comments/{id}", s.handleComments)
	r.Post("/comments/{id}", s.handlePostComment)

	r.Get("/login", s.handleCheckAuth)
	r.Post("/login", s.handleLogin)
	r.Delete("/login", s.handleLogout)

	r.Get("/favorite", s.handleFavorites)
	r.Post("/favorite/{id}/{status}", s.handleSetFavorite)
	return r
}

func (s *Server) outage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		down := s.down
		s.mu.Unlock()
		if down {
			writeError(w, http.StatusServiceUnavailable, "service unavailable")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(api.RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// email returns the session owner, or "" for anonymous requests. Callers
// hold s.mu.
func (s *Server) email(r *http.Request) string {
	token := r.Header.Get(api.TokenHeader)
	if token == "" {
		return ""
	}
	return s.sessions[token]
}

func (s *Server) findOffer(id string) (api.Offer, bool) {
	for _, offer := range s.offers {
		if offer.ID == id {
			return offer, true
		}
	}
	return api.Offer{}, false
}

// present shapes an offer for email: favorite flag set per user, and the
// detail-only fields dropped for list responses.
func (s *Server) present(offer api.Offer, email string, detail bool) api.Offer {
	offer.IsFavorite = email != "" && s.favorites[email][offer.ID]
	if !detail {
		offer.Description = ""
		offer.Bedrooms = 0
		offer.Goods = nil
		offer.Host = nil
		offer.Images = nil
		offer.MaxAdults = 0
	}
	return offer
}

func (s *Server) handleOffers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	email := s.email(r)
	out := make([]api.Offer, 0, len(s.offers))
	for _, offer := range s.offers {
		out = append(out, s.present(offer, email, false))
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleOffer(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	offer, ok := s.findOffer(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "offer not found")
		return
	}
	writeJSON(w, http.StatusOK, s.present(offer, s.email(r), true))
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	offer, ok := s.findOffer(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "offer not found")
		return
	}
	email := s.email(r)
	out := make([]api.Offer, 0, nearbyLimit)
	for _, other := range s.offers {
		if len(out) == nearbyLimit {
			break
		}
		if other.ID != offer.ID && other.City.Name == offer.City.Name {
			out = append(out, s.present(other, email, false))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	if _, ok := s.findOffer(id); !ok {
		writeError(w, http.StatusNotFound, "offer not found")
		return
	}
	list := s.comments[id]
	if list == nil {
		list = []api.Review{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handlePostComment(w http.ResponseWriter, r *http.Request) {
	var post api.CommentPost
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := s.email(r)
	if email == "" {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	id := chi.URLParam(r, "id")
	if _, ok := s.findOffer(id); !ok {
		writeError(w, http.StatusNotFound, "offer not found")
		return
	}
	length := len([]rune(strings.TrimSpace(post.Comment)))
	if length < minCommentLength || length > maxCommentLength || post.Rating < 1 || post.Rating > 5 {
		writeError(w, http.StatusBadRequest, "comment must be 50-300 characters with a rating of 1-5")
		return
	}

	review := api.Review{
		ID:      uuid.NewString(),
		Date:    time.Now().UTC().Format(time.RFC3339Nano),
		User:    api.Reviewer{Name: nameFromEmail(email)},
		Comment: strings.TrimSpace(post.Comment),
		Rating:  float64(post.Rating),
	}
	s.comments[id] = append(s.comments[id], review)
	writeJSON(w, http.StatusCreated, s.comments[id])
}

func (s *Server) handleCheckAuth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := s.email(r)
	if email == "" {
		writeError(w, http.StatusUnauthorized, "not authorized")
		return
	}
	writeJSON(w, http.StatusOK, userFor(email, r.Header.Get(api.TokenHeader)))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var auth api.AuthData
	if err := json.NewDecoder(r.Body).Decode(&auth); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	email := strings.TrimSpace(auth.Email)
	if !strings.Contains(email, "@") || !validPassword(auth.Password) {
		writeError(w, http.StatusBadRequest, "email and a password with a letter and a digit are required")
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = email
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, userFor(email, token))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	delete(s.sessions, r.Header.Get(api.TokenHeader))
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := s.email(r)
	if email == "" {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	out := []api.Offer{}
	for _, offer := range s.offers {
		if s.favorites[email][offer.ID] {
			out = append(out, s.present(offer, email, false))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSetFavorite(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := s.email(r)
	if email == "" {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	var favorite bool
	switch chi.URLParam(r, "status") {
	case "1":
		favorite = true
	case "0":
	default:
		writeError(w, http.StatusBadRequest, "status must be 0 or 1")
		return
	}
	offer, ok := s.findOffer(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "offer not found")
		return
	}

	if s.favorites[email] == nil {
		s.favorites[email] = make(map[string]bool)
	}
	if favorite {
		s.favorites[email][offer.ID] = true
	} else {
		delete(s.favorites[email], offer.ID)
	}
	writeJSON(w, http.StatusOK, s.present(offer, email, true))
}

func userFor(email, token string) api.UserData {
	return api.UserData{
		Name:      nameFromEmail(email),
		AvatarURL: "https://i.pravatar.cc/128?u=" + email,
		Email:     email,
		Token:     token,
	}
}

func nameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

func validPassword(password string) bool {
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
