package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix       = "user:%d"
	FriendsKeyPrefix    = "user:%d:friends"
	SettingsKey         = "app:settings"
	BroadcastsKeyPrefix = "broadcasts:active"
)

const (
	UserTTL      = 5 * time.Minute
	FriendsTTL   = 2 * time.Minute
	SettingsTTL  = 10 * time.Minute
	BroadcastTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func FriendsKey(userID uint) string {
	return fmt.Sprintf(FriendsKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, FriendsKey(userID))
}

func InvalidateSettings(ctx context.Context) {
	Invalidate(ctx, SettingsKey)
}

func InvalidateBroadcasts(ctx context.Context) {
	Invalidate(ctx, BroadcastsKeyPrefix)
}
