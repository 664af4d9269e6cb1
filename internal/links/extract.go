package links

import (
	"regexp"
	"strings"
)

var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://(?:[-\w.]|(?:%[\da-fA-F]{2}))+(?::\d+)?(?:/[-\w%!./?=&+#]*)*`),
	regexp.MustCompile(`(?i)www\.(?:[-\w.])+(?::\d+)?(?:/[-\w%!./?=&+#]*)*`),
}

// Characters that usually belong to the surrounding sentence rather than
// the URL itself.
const trailingPunct = `.,:;!?)]}>"'`

// Extract scans free text for URL candidates. Bare www. tokens are
// rewritten with an assumed https:// scheme, trailing sentence
// punctuation is stripped, and candidates that are too short or carry no
// dot are dropped. The result is deduplicated in first-seen order.
// Extraction never fails and performs no network I/O.
func Extract(text string) []string {
	var candidates []string
	for _, pattern := range urlPatterns {
		candidates = append(candidates, pattern.FindAllString(text, -1)...)
	}

	seen := make(map[string]struct{}, len(candidates))
	var out []string
	for _, link := range candidates {
		if strings.HasPrefix(link, "www.") {
			link = "https://" + link
		}
		for len(link) > 0 && strings.ContainsRune(trailingPunct, rune(link[len(link)-1])) {
			link = link[:len(link)-1]
		}
		if len(link) <= 10 || !strings.Contains(link, ".") {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		out = append(out, link)
	}
	return out
}
