package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanStripsUrlsAndMentions(t *testing.T) {
	in := "check https://example.com/x?y=1 and www.coindesk.com cc @somebody now"
	assert.Equal(t, "check and cc now", Clean(in, Options{}))
}

func TestCleanDecodesEntities(t *testing.T) {
	assert.Equal(t, "it's up & away", Clean("it&#39;s up &amp; away", Options{}))
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", Clean("  a\t b\n\nc  ", Options{}))
}

func TestCleanEmptyInput(t *testing.T) {
	assert.Equal(t, "", Clean("", Options{}))
	// Input that cleans away entirely collapses to empty, not an error.
	assert.Equal(t, "", Clean("https://only.a.link @user", Options{}))
}

func TestCleanRedditRefs(t *testing.T) {
	in := "as u/satoshi said in r/bitcoin yesterday"
	assert.Equal(t, "as said in yesterday", Clean(in, Options{StripRedditRefs: true}))
	// Opt-out keeps the references.
	assert.Equal(t, in, Clean(in, Options{}))
}

func TestCleanCashtags(t *testing.T) {
	in := "$BTC.X and $eth going up"
	assert.Equal(t, "and going up", Clean(in, Options{StripCashtags: true}))
}

func TestCleanEmojiOption(t *testing.T) {
	in := "to the moon \U0001F680\U0001F680"
	assert.Equal(t, "to the moon \U0001F680\U0001F680", Clean(in, Options{}))
	assert.Equal(t, "to the moon", Clean(in, Options{StripEmoji: true}))
}

func TestCleanLowercase(t *testing.T) {
	assert.Equal(t, "hodl gang", Clean("HODL Gang", Options{Lowercase: true}))
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"plain text stays put",
		"mixed @user content https://x.co with   spaces",
		"emoji kept \U0001F680 and refs u/a r/b $BTC",
	}
	opts := Options{StripRedditRefs: true, StripCashtags: true}
	for _, in := range inputs {
		once := Clean(in, opts)
		assert.Equal(t, once, Clean(once, opts), "input: %q", in)
	}
}

func TestIsScorable(t *testing.T) {
	assert.True(t, IsScorable("bitcoin looks strong today", 5))
	assert.False(t, IsScorable("gm", 5))
	// Long enough but not enough words.
	assert.False(t, IsScorable("bullishbullish", 5))
}
