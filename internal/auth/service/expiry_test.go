package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/authgate/internal/errors"
)

func TestParseExpiry(t *testing.T) {
	tests := []struct {
		input     string
		expected  time.Duration
		shouldErr bool
	}{
		{input: "30s", expected: 30 * time.Second},
		{input: "15m", expected: 15 * time.Minute},
		{input: "24h", expected: 24 * time.Hour},
		{input: "7d", expected: 7 * 24 * time.Hour},
		{input: "900", expected: 900 * time.Second},
		{input: " 1h ", expected: time.Hour},
		{input: "", shouldErr: true},
		{input: "0m", shouldErr: true},
		{input: "-5m", shouldErr: true},
		{input: "m", shouldErr: true},
		{input: "10w", shouldErr: true},
		{input: "1.5h", shouldErr: true},
		{input: "9223372036854775807d", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseExpiry(tt.input)
			if tt.shouldErr {
				assert.ErrorIs(t, err, apperrors.ErrConfiguration)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}
