package service

import (
	"fmt"
	"math"
	"strings"

	"domemarket/internal/models"
)

// PostCard is the compact listing representation used by the home page,
// the paginated listings and search results.
type PostCard struct {
	ID          uint    `json:"id"`
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	ImageURL    string  `json:"image_url"`
	ReviewCount int     `json:"review_count"`
	Rating      float64 `json:"rating"`
	PriceDetail string  `json:"price_detail"`
	Booked      bool    `json:"booked"`
}

// Presenter formats posts for listing surfaces.
type Presenter struct {
	defaultImageURL string
}

// NewPresenter creates a presenter. Posts without media fall back to
// defaultImageURL on cards.
func NewPresenter(defaultImageURL string) *Presenter {
	return &Presenter{defaultImageURL: defaultImageURL}
}

// Card builds the listing card for one post.
func (p *Presenter) Card(post *models.Post) PostCard {
	return PostCard{
		ID:          post.ID,
		Kind:        string(post.Kind),
		Title:       post.Title,
		ImageURL:    p.imageFor(post),
		ReviewCount: post.ReviewCount,
		Rating:      roundRating(post.AverageRating),
		PriceDetail: priceDetail(post),
		Booked:      post.Booked,
	}
}

// Cards maps a result set to listing cards, preserving order.
func (p *Presenter) Cards(posts []*models.Post) []PostCard {
	cards := make([]PostCard, 0, len(posts))
	for _, post := range posts {
		cards = append(cards, p.Card(post))
	}
	return cards
}

func (p *Presenter) imageFor(post *models.Post) string {
	for _, m := range post.Media {
		if u := m.URL(); u != "" {
			return u
		}
	}
	return p.defaultImageURL
}

func priceDetail(post *models.Post) string {
	switch {
	case post.Kind == models.KindHiring && post.Hiring != nil:
		return fmt.Sprintf("From ฿%s", groupDigits(post.Hiring.BudgetMin))
	case post.Kind == models.KindRental && post.Rental != nil:
		return fmt.Sprintf("฿%s/day", groupDigits(post.Rental.PricePerDay))
	default:
		return ""
	}
}

// roundRating rounds to one decimal place for display.
func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// groupDigits renders n with thousands separators, e.g. 12500 -> "12,500".
func groupDigits(n int) string {
	if n < 0 {
		return "-" + groupDigits(-n)
	}
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
