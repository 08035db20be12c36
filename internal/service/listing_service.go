package service

import (
	"context"
	"sort"
	"strings"

	"domemarket/internal/cache"
	"domemarket/internal/models"
	"domemarket/internal/repository"
)

// PageSize is the number of cards per listing page.
const PageSize = 6

// HomeRecentCount is how many recent posts of each kind the home page shows.
const HomeRecentCount = 3

// ListingPage is one page of a kind-specific listing plus the metadata a
// pager needs.
type ListingPage struct {
	Posts      []PostCard `json:"posts"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	TotalPosts int64      `json:"total_posts"`
	HasNext    bool       `json:"has_next"`
	HasPrev    bool       `json:"has_prev"`
}

// HomePage is the landing snapshot: the newest few posts of each kind.
type HomePage struct {
	Hiring []PostCard `json:"hiring"`
	Rental []PostCard `json:"rental"`
}

// SearchResult carries matches for both kinds plus the merged view.
type SearchResult struct {
	Query  string     `json:"query"`
	Hiring []PostCard `json:"hiring"`
	Rental []PostCard `json:"rental"`
	All    []PostCard `json:"all"`
}

// ListingService owns the read-side listing surfaces.
type ListingService struct {
	postRepo  repository.PostRepository
	presenter *Presenter
}

func NewListingService(postRepo repository.PostRepository, presenter *Presenter) *ListingService {
	return &ListingService{postRepo: postRepo, presenter: presenter}
}

// Home returns the newest posts of each kind. Anonymous responses are
// identical for everyone and are served from cache.
func (s *ListingService) Home(ctx context.Context, currentUserID uint) (*HomePage, error) {
	var home HomePage

	fetch := func() error {
		hiring, err := s.postRepo.Recent(ctx, models.KindHiring, HomeRecentCount, currentUserID)
		if err != nil {
			return err
		}
		rental, err := s.postRepo.Recent(ctx, models.KindRental, HomeRecentCount, currentUserID)
		if err != nil {
			return err
		}
		home.Hiring = s.presenter.Cards(hiring)
		home.Rental = s.presenter.Cards(rental)
		return nil
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.HomeKey, &home, cache.HomeTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &home, nil
}

// Page returns one page of the given kind's listing, newest first.
// Pages are 1-based; out-of-range pages come back empty, not as errors.
func (s *ListingService) Page(ctx context.Context, kind models.PostKind, page int, currentUserID uint) (*ListingPage, error) {
	if !kind.Valid() {
		return nil, models.NewValidationError("Unknown post kind")
	}
	if page < 1 {
		page = 1
	}

	var result ListingPage

	fetch := func() error {
		total, err := s.postRepo.CountByKind(ctx, kind)
		if err != nil {
			return err
		}
		posts, err := s.postRepo.ListByKind(ctx, kind, PageSize, (page-1)*PageSize, currentUserID)
		if err != nil {
			return err
		}

		totalPages := int((total + PageSize - 1) / PageSize)
		result = ListingPage{
			Posts:      s.presenter.Cards(posts),
			Page:       page,
			TotalPages: totalPages,
			TotalPosts: total,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		}
		return nil
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.ListingKey(kind, page), &result, cache.ListingTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Search matches hiring posts on title, description and skill names, and
// rental posts on title, description and category names. The merged view
// is ordered newest first across both kinds.
func (s *ListingService) Search(ctx context.Context, query string, currentUserID uint) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}

	hiring, err := s.postRepo.SearchHiring(ctx, query, currentUserID)
	if err != nil {
		return nil, err
	}
	rental, err := s.postRepo.SearchRental(ctx, query, currentUserID)
	if err != nil {
		return nil, err
	}

	merged := make([]*models.Post, 0, len(hiring)+len(rental))
	merged = append(merged, hiring...)
	merged = append(merged, rental...)
	sort.Slice(merged, func(i, j int) bool { return merged[i].ID > merged[j].ID })

	return &SearchResult{
		Query:  query,
		Hiring: s.presenter.Cards(hiring),
		Rental: s.presenter.Cards(rental),
		All:    s.presenter.Cards(merged),
	}, nil
}
