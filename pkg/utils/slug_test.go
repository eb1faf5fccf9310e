package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidSlug(t *testing.T) {
	for _, s := range []string{"acme", "my-org-2", "a1", "x-y-z"} {
		assert.True(t, ValidSlug(s), s)
	}
	for _, s := range []string{"", "a", "-acme", "Acme", "my org", "under_score", "ümlaut"} {
		assert.False(t, ValidSlug(s), s)
	}
}

func TestNormalizeSlug(t *testing.T) {
	assert.Equal(t, "acme", NormalizeSlug("  Acme "))
	assert.Equal(t, "my-org", NormalizeSlug("MY-ORG"))
}
