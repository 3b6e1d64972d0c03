package constants

import "time"

// Cache prefixes are joined to the record id by CacheBuilder as "prefix:id".
const (
	// user with preloaded roles, by user id
	UserCachePrefix = "user"
	UserCacheExpiry = 7 * 24 * time.Hour

	// playable config, by game id
	GameConfigPrefix = "game_config"
	GameConfigExpiry = 24 * time.Hour
)
