// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package stemdex

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds configuration for an index database.
type Config struct {
	// PoolSize is the number of workers stemming documents during ingestion.
	// Default: runtime.NumCPU() / 2, minimum 1
	PoolSize int

	// MinTokenLength drops shorter tokens before stemming, at ingestion and query time.
	// Default: 2
	MinTokenLength int

	// KeepStopWords indexes and queries English stopwords instead of dropping them.
	// Default: false
	KeepStopWords bool

	// SearchLimit is the number of results returned when a search passes no limit.
	// Default: 10
	SearchLimit int

	// Compression stores document contents zstd-compressed.
	// Existing documents stay readable when this changes.
	// Default: false
	Compression bool

	// InMemory keeps the whole index in memory; the path is ignored.
	// Default: false
	InMemory bool
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithPoolSize sets the ingestion worker pool size.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// WithMinTokenLength sets the minimum token length.
func WithMinTokenLength(n int) ConfigOption {
	return func(c *Config) {
		c.MinTokenLength = n
	}
}

// WithStopWords keeps stopwords when keep is true.
func WithStopWords(keep bool) ConfigOption {
	return func(c *Config) {
		c.KeepStopWords = keep
	}
}

// WithSearchLimit sets the default number of search results.
func WithSearchLimit(limit int) ConfigOption {
	return func(c *Config) {
		c.SearchLimit = limit
	}
}

// WithCompression enables zstd compression of stored documents.
func WithCompression(enabled bool) ConfigOption {
	return func(c *Config) {
		c.Compression = enabled
	}
}

// WithInMemory keeps the index in memory.
func WithInMemory(inMemory bool) ConfigOption {
	return func(c *Config) {
		c.InMemory = inMemory
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	return &Config{
		PoolSize:       poolSize,
		MinTokenLength: 2,
		SearchLimit:    10,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//		WithPoolSize(8),
//		WithCompression(true),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.PoolSize < 1 {
		return fmt.Errorf("%w: PoolSize must be at least 1", ErrInvalidConfig)
	}
	if c.MinTokenLength < 1 {
		return fmt.Errorf("%w: MinTokenLength must be at least 1", ErrInvalidConfig)
	}
	if c.SearchLimit < 1 {
		return fmt.Errorf("%w: SearchLimit must be at least 1", ErrInvalidConfig)
	}
	return nil
}
