package cache

import (
	"context"
	"fmt"
	"time"

	"domemarket/internal/models"
)

const (
	UserKeyPrefix    = "user:%d"
	PostKeyPrefix    = "post:%d"
	ListingKeyPrefix = "listing:%s:%d"
	HomeKey          = "home"
)

const (
	UserTTL    = 5 * time.Minute
	PostTTL    = 30 * time.Minute
	ListingTTL = 2 * time.Minute
	HomeTTL    = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// ListingKey identifies one page of a kind-specific listing.
func ListingKey(kind models.PostKind, page int) string {
	return fmt.Sprintf(ListingKeyPrefix, kind, page)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidateListings drops every cached listing page and the home snapshot.
// Called on any post write; listing pages shift whenever a post is created
// or deleted, so per-page invalidation is not worth the bookkeeping.
func InvalidateListings(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "listing:*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
	client.Del(ctx, HomeKey)
}
