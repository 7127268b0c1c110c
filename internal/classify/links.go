package classify

import (
	"net/url"
	"regexp"
	"strings"
)

// urlPattern requires an explicit scheme; bare domains are not treated
// as links.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// extractLinks finds scheme-prefixed URLs in s and keeps only those
// whose effective TLD is recognized.
func extractLinks(s string) []string {
	matches := urlPattern.FindAllString(s, -1)
	var out []string
	for _, m := range matches {
		m = strings.TrimRight(m, ".,;:!?)")
		if hasRecognizedTLD(m) {
			out = append(out, m)
		}
	}
	return out
}

func hasRecognizedTLD(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := u.Hostname()
	labels := strings.Split(host, ".")
	last := labels[len(labels)-1]
	return isPublicTLD(strings.ToLower(last))
}

var imageURLPattern = regexp.MustCompile(`(?i)^https?://\S+\.(jpe?g|png|gif|svg)$`)

func isImageURL(link string) bool {
	return imageURLPattern.MatchString(link)
}

func isVideoURL(link string) bool {
	lower := strings.ToLower(link)
	return strings.Contains(lower, "youtube.com") || strings.Contains(lower, "youtu.be")
}

func isAudioURL(link string) bool {
	return strings.HasSuffix(strings.ToLower(link), ".mp3")
}
