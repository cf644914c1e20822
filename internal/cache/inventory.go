package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix = "user:%d"
	BlogKeyPrefix = "blog:%s"

	CategoriesListKey = "categories:list"
	TagsListKey       = "tags:list"
)

const (
	UserTTL     = 5 * time.Minute
	BlogTTL     = 30 * time.Minute
	TaxonomyTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func BlogKey(slug string) string {
	return fmt.Sprintf(BlogKeyPrefix, slug)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateBlog(ctx context.Context, slug string) {
	Invalidate(ctx, BlogKey(slug))
}

func InvalidateTaxonomies(ctx context.Context) {
	Invalidate(ctx, CategoriesListKey)
	Invalidate(ctx, TagsListKey)
}
