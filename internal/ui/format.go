package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/five82/stayer/internal/api"
)

const (
	maxStars          = 5
	maxReviewsVisible = 10
)

// ratingStars renders rating rounded to whole stars out of five.
func ratingStars(rating float64) string {
	full := int(math.Round(rating))
	if full < 0 {
		full = 0
	}
	if full > maxStars {
		full = maxStars
	}
	return strings.Repeat("★", full) + strings.Repeat("☆", maxStars-full)
}

// formatPrice renders a nightly price in euros.
func formatPrice(price int) string {
	return fmt.Sprintf("€%d", price)
}

// reviewsForDisplay returns the newest reviews first, at most ten. The input
// slice is left untouched.
func reviewsForDisplay(reviews []api.Review) []api.Review {
	out := make([]api.Review, len(reviews))
	copy(out, reviews)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ParsedDate().After(out[j].ParsedDate())
	})
	if len(out) > maxReviewsVisible {
		out = out[:maxReviewsVisible]
	}
	return out
}

// reviewDate formats the review date as month and year.
func reviewDate(review api.Review) string {
	t := review.ParsedDate()
	if t.IsZero() {
		return review.Date
	}
	return t.Format("January 2006")
}
