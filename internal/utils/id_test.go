package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaymentID(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^pm_[0-9a-f]{16}$`)
	seen := make(map[string]struct{})
	for range 100 {
		id, err := NewPaymentID()
		require.NoError(t, err)
		assert.Regexp(t, pattern, id)
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}
