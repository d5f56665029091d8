package api

import "time"

// Location is a point on the map with the zoom level the API suggests for it.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      int     `json:"zoom"`
}

// City names a city and its map center.
type City struct {
	Name     string   `json:"name"`
	Location Location `json:"location"`
}

// Host describes the person renting out an offer.
type Host struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	IsPro     bool   `json:"isPro"`
}

// Offer mirrors the payload returned by /offers and /offers/{id}. List
// responses leave the detail-only fields (description, images, goods, host)
// empty.
type Offer struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	Price        int      `json:"price"`
	City         City     `json:"city"`
	Location     Location `json:"location"`
	IsFavorite   bool     `json:"isFavorite"`
	IsPremium    bool     `json:"isPremium"`
	Rating       float64  `json:"rating"`
	PreviewImage string   `json:"previewImage"`
	Description  string   `json:"description,omitempty"`
	Bedrooms     int      `json:"bedrooms,omitempty"`
	Goods        []string `json:"goods,omitempty"`
	Host         *Host    `json:"host,omitempty"`
	Images       []string `json:"images,omitempty"`
	MaxAdults    int      `json:"maxAdults,omitempty"`
}

// Reviewer is the author of a review.
type Reviewer struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	IsPro     bool   `json:"isPro"`
}

// Review mirrors one entry of /comments/{id}.
type Review struct {
	ID      string   `json:"id"`
	Date    string   `json:"date"`
	User    Reviewer `json:"user"`
	Comment string   `json:"comment"`
	Rating  float64  `json:"rating"`
}

// ParsedDate returns the review date as time.Time, or the zero time when the
// API sent something unparseable.
func (r Review) ParsedDate() time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, r.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// CommentPost is the body of POST /comments/{id}.
type CommentPost struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

// AuthData carries login credentials.
type AuthData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserData is the authenticated user returned by /login.
type UserData struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	IsPro     bool   `json:"isPro"`
	Email     string `json:"email"`
	Token     string `json:"token"`
}
