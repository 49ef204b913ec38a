package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	PostKeyPrefix      = "post:%d"
	PostSlugKeyPrefix  = "post:slug:%s"
	ViewCountKeyPrefix = "post:%d:views"
	PublicFeedKey      = "feed:public"
)

const (
	UserTTL      = 5 * time.Minute
	PostTTL      = 10 * time.Minute
	ViewCountTTL = time.Minute
	FeedTTL      = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func PostSlugKey(slug string) string {
	return fmt.Sprintf(PostSlugKeyPrefix, slug)
}

func ViewCountKey(postID uint) string {
	return fmt.Sprintf(ViewCountKeyPrefix, postID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint, slug string) {
	Invalidate(ctx, PostKey(postID))
	if slug != "" {
		Invalidate(ctx, PostSlugKey(slug))
	}
	Invalidate(ctx, PublicFeedKey)
}

func InvalidateViewCount(ctx context.Context, postID uint) {
	Invalidate(ctx, ViewCountKey(postID))
}
