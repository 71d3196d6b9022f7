package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxonomyMatchSet(t *testing.T) {
	tax := testTaxonomy()

	t.Run("shared category levels", func(t *testing.T) {
		set := tax.MatchSet("Ramen")
		// Ramen shares Japanese with Sushi, Asian with Sushi and Pho, Noodles with Pho.
		assert.Contains(t, set, "Ramen")
		assert.Contains(t, set, "Sushi")
		assert.Contains(t, set, "Pho")
		assert.NotContains(t, set, "Tacos")
		assert.NotContains(t, set, "Pizza")
	})

	t.Run("isolated cuisine matches itself", func(t *testing.T) {
		set := tax.MatchSet("Pizza")
		assert.Equal(t, map[string]struct{}{"Pizza": {}}, set)
	})

	t.Run("unknown cuisine matches by exact name only", func(t *testing.T) {
		set := tax.MatchSet("Fusion")
		assert.Equal(t, map[string]struct{}{"Fusion": {}}, set)
	})
}

func TestTaxonomyMatches(t *testing.T) {
	tax := testTaxonomy()

	assert.True(t, tax.Matches("Sushi", []string{"Pho"}))
	assert.False(t, tax.Matches("Sushi", []string{"Tacos"}))
	assert.False(t, tax.Matches("Sushi", nil))
}
