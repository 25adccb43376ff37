package alias

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var aliasPattern = regexp.MustCompile(`^[A-Z][a-z]+[A-Z][a-z]+\d{3}$`)

func TestGenerateShape(t *testing.T) {
	for range 100 {
		got := Generate()
		assert.Regexp(t, aliasPattern, got)
	}
}

func TestGenerateVaries(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		seen[Generate()] = true
	}
	// 8000 combinations per word pair; 50 draws colliding into one value
	// would mean the generator is broken.
	assert.Greater(t, len(seen), 1)
}
