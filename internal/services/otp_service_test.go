package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPService_GenerateFormat(t *testing.T) {
	otps := NewOTPService()
	sixDigits := regexp.MustCompile(`^[0-9]{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := otps.Generate()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
		seen[code] = true
	}
	// 200 draws from a million values should almost never collapse to one
	assert.Greater(t, len(seen), 1)
}

func TestOTPService_DigestDeterministic(t *testing.T) {
	otps := NewOTPService()

	assert.Equal(t, otps.Digest("123456"), otps.Digest("123456"))
	assert.NotEqual(t, otps.Digest("123456"), otps.Digest("123457"))
	assert.Len(t, otps.Digest("123456"), 64) // hex sha256
}

func TestOTPService_Expiry(t *testing.T) {
	otps := NewOTPService()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(10*time.Minute), otps.Expiry(now, 10*time.Minute))
}
