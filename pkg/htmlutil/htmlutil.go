package htmlutil

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// MaxMessageLength is the Telegram hard limit for a text message.
const MaxMessageLength = 4096

// MaxCaptionLength is the Telegram limit for a media caption.
const MaxCaptionLength = 1020

// structuralPatterns remove document-level HTML the model sometimes emits
// around its answer. Telegram renders none of these.
var structuralPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<!DOCTYPE[^>]*>`),
	regexp.MustCompile(`(?i)</?html[^>]*>`),
	regexp.MustCompile(`(?i)</?head[^>]*>`),
	regexp.MustCompile(`(?i)</?body[^>]*>`),
	regexp.MustCompile(`(?i)</?div[^>]*>`),
	regexp.MustCompile(`(?i)</?p(?:\s[^>]*)?>`), // <p> only, never <pre>
	regexp.MustCompile(`(?i)</?span[^>]*>`),
	regexp.MustCompile(`(?i)</?section[^>]*>`),
	regexp.MustCompile(`(?i)</?article[^>]*>`),
	regexp.MustCompile(`(?i)</?h[1-6][^>]*>`),
	regexp.MustCompile(`(?i)</?ul[^>]*>`),
	regexp.MustCompile(`(?i)</?ol[^>]*>`),
	regexp.MustCompile(`(?i)</?li[^>]*>`),
	regexp.MustCompile(`(?i)</?br[^>]*/?>`),
}

var (
	anyTagPattern     = regexp.MustCompile(`<[^>]+>`)
	allowedTagPattern = regexp.MustCompile(`(?i)^</?(?:a|b|i|u|s|code|pre)(?:\s[^>]*)?>$`)
	openTagPattern    = regexp.MustCompile(`(?i)<(b|i|u|s|code)(?:\s[^>]*)?>`)
	closeTagPattern   = regexp.MustCompile(`(?i)</(b|i|u|s|code)>`)
	blankLinePattern  = regexp.MustCompile(`\n\s*\n`)
	spacesPattern     = regexp.MustCompile(`[ \t]+`)
)

// CleanForTelegram reduces model output to the HTML subset Telegram
// accepts: <a>, <b>, <i>, <u>, <s>, <code>, <pre>. Structural tags are
// stripped, unknown tags removed, unbalanced inline tags repaired and
// whitespace normalized.
func CleanForTelegram(text string) string {
	if text == "" {
		return ""
	}

	cleaned := text
	for _, pattern := range structuralPatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}

	cleaned = balanceInlineTags(cleaned)

	cleaned = blankLinePattern.ReplaceAllString(cleaned, "\n\n")
	cleaned = spacesPattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	for _, tag := range anyTagPattern.FindAllString(cleaned, -1) {
		if !allowedTagPattern.MatchString(tag) {
			cleaned = strings.ReplaceAll(cleaned, tag, "")
			logrus.Warnf("[HTML] removed unsupported tag: %s", tag)
		}
	}

	return cleaned
}

// Truncate enforces a Telegram length limit, appending an ellipsis when
// the text had to be cut.
func Truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}

// ExtractAnchors lists the href targets of all <a> tags in an HTML
// fragment, used to verify the rewrite kept the source links.
func ExtractAnchors(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logrus.WithError(err).Debug("[HTML] anchor extraction failed")
		return nil
	}

	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && href != "" {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}

// balanceInlineTags appends missing closing tags and drops surplus ones so
// Telegram does not reject the message outright.
func balanceInlineTags(text string) string {
	openCount := map[string]int{}
	for _, match := range openTagPattern.FindAllStringSubmatch(text, -1) {
		openCount[strings.ToLower(match[1])]++
	}
	closeCount := map[string]int{}
	for _, match := range closeTagPattern.FindAllStringSubmatch(text, -1) {
		closeCount[strings.ToLower(match[1])]++
	}

	for tag, opened := range openCount {
		for missing := opened - closeCount[tag]; missing > 0; missing-- {
			text += "</" + tag + ">"
		}
	}
	for tag, closed := range closeCount {
		for excess := closed - openCount[tag]; excess > 0; excess-- {
			marker := "</" + tag + ">"
			if pos := strings.LastIndex(text, marker); pos != -1 {
				text = text[:pos] + text[pos+len(marker):]
			}
		}
	}
	return text
}
