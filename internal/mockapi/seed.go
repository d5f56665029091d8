package mockapi

import (
	"fmt"

	"github.com/five82/stayer/internal/api"
)

type seedCity struct {
	name     string
	lat, lng float64
}

var seedCities = []seedCity{
	{"Paris", 48.85661, 2.351499},
	{"Cologne", 50.938361, 6.959974},
	{"Brussels", 50.846557, 4.351697},
	{"Amsterdam", 52.37454, 4.897976},
	{"Hamburg", 53.550341, 10.000654},
	{"Dusseldorf", 51.225402, 6.776314},
}

type seedListing struct {
	title    string
	kind     string
	price    int
	rating   float64
	premium  bool
	bedrooms int
	adults   int
}

var seedListings = []seedListing{
	{"Beautiful & luxurious apartment at great location", "apartment", 120, 4.8, true, 3, 4},
	{"Wood and stone place", "room", 80, 4.0, false, 1, 2},
	{"Canal View Prinsengracht", "house", 260, 4.5, false, 4, 6},
	{"Nice, cozy, warm big bed apartment", "hotel", 180, 3.7, true, 2, 3},
}

var seedGoods = []string{"Heating", "Kitchen", "Wi-Fi", "Washing machine", "Coffee machine", "Dishwasher"}

// Seed returns deterministic sample offers (four per city) and a review for
// the first offer of every city.
func Seed() ([]api.Offer, map[string][]api.Review) {
	var offers []api.Offer
	reviews := make(map[string][]api.Review)
	host := api.Host{Name: "Angelina", AvatarURL: "img/avatar-angelina.jpg", IsPro: true}

	for ci, city := range seedCities {
		cityInfo := api.City{
			Name:     city.name,
			Location: api.Location{Latitude: city.lat, Longitude: city.lng, Zoom: 13},
		}
		for li, listing := range seedListings {
			id := fmt.Sprintf("%d%d", ci+1, li+1)
			offset := float64(li+1) * 0.004
			offers = append(offers, api.Offer{
				ID:           id,
				Title:        listing.title,
				Type:         listing.kind,
				Price:        listing.price + ci*5,
				City:         cityInfo,
				Location:     api.Location{Latitude: city.lat + offset, Longitude: city.lng - offset, Zoom: 16},
				IsPremium:    listing.premium,
				Rating:       listing.rating,
				PreviewImage: fmt.Sprintf("img/apartment-%02d.jpg", li+1),
				Description:  fmt.Sprintf("A quiet %s in %s, close to the center.", listing.kind, city.name),
				Bedrooms:     listing.bedrooms,
				Goods:        append([]string(nil), seedGoods[:2+li]...),
				Host:         &host,
				Images:       []string{fmt.Sprintf("img/room-%02d.jpg", li+1), "img/studio-01.jpg"},
				MaxAdults:    listing.adults,
			})
		}
		firstID := fmt.Sprintf("%d1", ci+1)
		reviews[firstID] = []api.Review{{
			ID:      "r" + firstID,
			Date:    "2024-05-08T14:13:56.569Z",
			User:    api.Reviewer{Name: "Max", AvatarURL: "img/avatar-max.jpg"},
			Comment: "A quiet cozy and picturesque that hides behind a a river by the unique lightness of Amsterdam.",
			Rating:  4,
		}}
	}
	return offers, reviews
}
