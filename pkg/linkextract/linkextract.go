package linkextract

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	urlPattern     = regexp.MustCompile(`(?i)https?://[^\s<>"{}|\\^` + "`" + `\[\]]+[^\s<>"{}|\\^` + "`" + `\[\].,!?;:]`)
	mentionPattern = regexp.MustCompile(`@[A-Za-z0-9_]{4,32}`)
	hashtagPattern = regexp.MustCompile(`#[\p{L}0-9_]+`)
)

// Extracted holds everything pulled out of a forwarded message that the
// rewrite prompt needs to preserve.
type Extracted struct {
	URLs     []string
	Mentions []string
	Hashtags []string
}

// FromText extracts URLs, @mentions and #hashtags from plain message text.
// Results are deduplicated, keeping first-seen order.
func FromText(text string) Extracted {
	if strings.TrimSpace(text) == "" {
		return Extracted{}
	}

	out := Extracted{
		URLs:     dedupe(urlPattern.FindAllString(text, -1)),
		Mentions: dedupe(mentionPattern.FindAllString(text, -1)),
		Hashtags: dedupe(hashtagPattern.FindAllString(text, -1)),
	}

	logrus.Debugf("[LINKS] extracted %d urls, %d mentions, %d hashtags",
		len(out.URLs), len(out.Mentions), len(out.Hashtags))
	return out
}

// IsTelegramLink reports whether a URL points inside Telegram; the group
// processing prompt strips these.
func IsTelegramLink(url string) bool {
	lower := strings.ToLower(url)
	return strings.Contains(lower, "t.me/") || strings.Contains(lower, "telegram.me/")
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
