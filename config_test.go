package stemdex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.GreaterOrEqual(t, cfg.PoolSize, 1)
	assert.Equal(t, 2, cfg.MinTokenLength)
	assert.Equal(t, 10, cfg.SearchLimit)
	assert.False(t, cfg.KeepStopWords)
	assert.False(t, cfg.Compression)
	assert.False(t, cfg.InMemory)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		assert.Equal(t, DefaultConfig(), NewConfig())
	})

	t.Run("with options", func(t *testing.T) {
		cfg := NewConfig(
			WithPoolSize(8),
			WithMinTokenLength(3),
			WithStopWords(true),
			WithSearchLimit(25),
			WithCompression(true),
			WithInMemory(true),
		)

		assert.Equal(t, 8, cfg.PoolSize)
		assert.Equal(t, 3, cfg.MinTokenLength)
		assert.True(t, cfg.KeepStopWords)
		assert.Equal(t, 25, cfg.SearchLimit)
		assert.True(t, cfg.Compression)
		assert.True(t, cfg.InMemory)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []ConfigOption
		wantErr string
	}{
		{"valid", nil, ""},
		{"zero pool size", []ConfigOption{WithPoolSize(0)}, "PoolSize"},
		{"zero token length", []ConfigOption{WithMinTokenLength(0)}, "MinTokenLength"},
		{"negative search limit", []ConfigOption{WithSearchLimit(-1)}, "SearchLimit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opts...).Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
