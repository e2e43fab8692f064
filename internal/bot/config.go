package bot

import (
	"time"
)

// Config represents the configuration for the bot
type Config struct {
	// Long polling timeout in seconds
	UpdateTimeout int
	// Upper bound for generating one practice item
	ContentTimeout time.Duration
	// Upper bound for one coach reply
	DialogueTimeout time.Duration
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() Config {
	return Config{
		UpdateTimeout:   60,
		ContentTimeout:  15 * time.Second,
		DialogueTimeout: 30 * time.Second,
	}
}
