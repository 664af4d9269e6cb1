package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractStripsTrailingPunctuation(t *testing.T) {
	urls := Extract("More details at https://example.com/docs.")
	assert.Equal(t, []string{"https://example.com/docs"}, urls)

	urls = Extract("(see https://example.com/faq), or ask again")
	assert.Equal(t, []string{"https://example.com/faq"}, urls)
}

func TestExtractRewritesBareWWW(t *testing.T) {
	urls := Extract("Check www.example.com/pricing for current rates")
	assert.Equal(t, []string{"https://www.example.com/pricing"}, urls)
}

func TestExtractDeduplicatesFirstSeen(t *testing.T) {
	text := "First https://a.example.com then https://b.example.com then https://a.example.com again"
	urls := Extract(text)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, urls)
}

func TestExtractDropsShortAndDotlessCandidates(t *testing.T) {
	assert.Empty(t, Extract("See http://a.b for details"))
	assert.Empty(t, Extract("nothing to see here"))
}

func TestExtractHandlesQueryAndFragment(t *testing.T) {
	urls := Extract("Docs: https://docs.example.com/guide?page=2&lang=en#install and done.")
	assert.Equal(t, []string{"https://docs.example.com/guide?page=2&lang=en#install"}, urls)
}

func TestExtractIsIdempotent(t *testing.T) {
	text := "Visit https://example.com/a and www.example.org/b."
	first := Extract(text)

	// Re-extracting from the already-cleaned URLs must reproduce them.
	for _, u := range first {
		assert.Equal(t, []string{u}, Extract(u))
	}
}

func TestExtractKeepsPortNumbers(t *testing.T) {
	urls := Extract("Local service at http://127.0.0.1:8080/health responded.")
	assert.Equal(t, []string{"http://127.0.0.1:8080/health"}, urls)
}

func TestExtractEmptyInput(t *testing.T) {
	assert.Empty(t, Extract(""))
}

func TestExtractMultipleSchemes(t *testing.T) {
	urls := Extract("Plain http://legacy.example.com/page and secure https://example.com/new")
	assert.Equal(t, []string{"http://legacy.example.com/page", "https://example.com/new"}, urls)
}
