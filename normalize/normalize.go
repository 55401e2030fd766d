// Package normalize prepares raw platform text for sentiment scoring. All
// functions are pure and idempotent, safe to call concurrently.
package normalize

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	urlRe        = regexp.MustCompile(`(?i)\bhttps?://\S+|\bwww\.\S+`)
	mentionRe    = regexp.MustCompile(`@\w+`)
	redditRefRe  = regexp.MustCompile(`\b[ur]/\w+`)
	cashtagRe    = regexp.MustCompile(`\$[A-Za-z][A-Za-z0-9.\-]*`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Options control the platform dependent parts of cleaning. The defaults
// (zero value) keep emoji: they carry sentiment signal on most platforms,
// dropping them is an explicit call-site decision.
type Options struct {
	StripEmoji bool
	// Reddit-style u/user and r/sub references.
	StripRedditRefs bool
	// StockTwits/Twitter $BTC style cashtags.
	StripCashtags bool
	Lowercase     bool
}

// Clean applies the cleaning rules in order: strip URLs, strip @-mentions,
// decode HTML entities, collapse whitespace. Empty input maps to empty
// output, never an error.
func Clean(text string, opts Options) string {
	if text == "" {
		return ""
	}

	text = StripURLs(text)
	text = StripMentions(text)
	if opts.StripRedditRefs {
		text = redditRefRe.ReplaceAllString(text, "")
	}
	if opts.StripCashtags {
		text = cashtagRe.ReplaceAllString(text, "")
	}
	text = DecodeEntities(text)
	if opts.StripEmoji {
		text = StripEmoji(text)
	}
	if opts.Lowercase {
		text = strings.ToLower(text)
	}
	return CollapseWhitespace(text)
}

func StripURLs(text string) string {
	return urlRe.ReplaceAllString(text, "")
}

func StripMentions(text string) string {
	return mentionRe.ReplaceAllString(text, "")
}

// DecodeEntities resolves HTML entities like &amp; and &#39; that Reddit
// and RSS payloads routinely carry.
func DecodeEntities(text string) string {
	return html.UnescapeString(text)
}

// StripEmoji drops symbol and pictograph runes while keeping letters,
// digits, and sentence punctuation intact.
func StripEmoji(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.So, r) || unicode.Is(unicode.Sk, r) || r >= 0x1F000 {
			return -1
		}
		return r
	}, text)
}

func CollapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// IsScorable reports whether cleaned text carries enough content to be worth
// handing to a classifier.
func IsScorable(text string, minLength int) bool {
	if len(text) < minLength {
		return false
	}
	return len(strings.Fields(text)) >= 3
}
