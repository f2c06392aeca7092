package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"numbertalk/internal/middleware"
	"numbertalk/internal/observability"
)

const (
	PostsListKey       = "board:posts"
	DiscussionsListKey = "board:discussions"
	PostKeyPrefix      = "board:post:%s"
	CommentsKeyPrefix  = "board:post:%s:comments"
	BlacklistKeyPrefix = "blacklist:%s"
)

// DefaultBoardTTL matches the client refresh interval.
const DefaultBoardTTL = 10 * time.Second

func PostKey(postID string) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func CommentsKey(postID string) string {
	return fmt.Sprintf(CommentsKeyPrefix, postID)
}

func BlacklistKey(jti string) string {
	return fmt.Sprintf(BlacklistKeyPrefix, jti)
}

// Aside fills dest from key, or runs load and stores dest under key for ttl.
// Without a Redis client it only runs load. Cache errors never fail the call.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, load func() error) error {
	if client == nil {
		return load()
	}

	raw, err := client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			observability.CacheLookups.WithLabelValues("hit").Inc()
			return nil
		}
		observability.CacheLookups.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		observability.CacheLookups.WithLabelValues("miss").Inc()
	default:
		observability.CacheLookups.WithLabelValues("error").Inc()
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	if err := load(); err != nil {
		return err
	}

	payload, err := json.Marshal(dest)
	if err != nil {
		return nil
	}
	if err := client.Set(ctx, key, payload, ttl).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidatePost drops every cached view containing the post or its comments.
func InvalidatePost(ctx context.Context, postID string) {
	Invalidate(ctx, PostsListKey, PostKey(postID), CommentsKey(postID))
}

func InvalidateDiscussions(ctx context.Context) {
	Invalidate(ctx, DiscussionsListKey)
}
