package collector_instances

import (
	"regexp"
	"strings"
)

// Per-asset platform channels. Adapters fall back to these when the task
// doesn't spell out a channel explicitly.

var defaultSubreddits = map[string]string{
	"bitcoin":  "Bitcoin",
	"ethereum": "ethereum",
	"solana":   "solana",
	"cardano":  "cardano",
	"dogecoin": "dogecoin",
	"ripple":   "xrp",
}

var stocktwitsSymbols = map[string]string{
	"bitcoin":  "BTC.X",
	"ethereum": "ETH.X",
	"solana":   "SOL.X",
	"cardano":  "ADA.X",
	"dogecoin": "DOGE.X",
	"ripple":   "XRP.X",
}

var assetKeywords = map[string][]string{
	"bitcoin":  {"bitcoin", "btc", "satoshi"},
	"ethereum": {"ethereum", "eth", "vitalik"},
	"solana":   {"solana", "sol"},
	"cardano":  {"cardano", "ada"},
	"dogecoin": {"dogecoin", "doge"},
	"ripple":   {"ripple", "xrp"},
	"crypto":   {"crypto", "cryptocurrency", "defi", "altcoin"},
}

type repoRef struct {
	Owner string
	Repo  string
}

// Repos with active crypto discussion per asset, used by the github adapter.
var assetRepos = map[string][]repoRef{
	"bitcoin":  {{"bitcoin", "bitcoin"}, {"bitcoin-core", "gui"}},
	"ethereum": {{"ethereum", "go-ethereum"}, {"ethereum", "consensus-specs"}},
	"solana":   {{"solana-labs", "solana"}},
	"cardano":  {{"input-output-hk", "cardano-node"}},
}

func subredditFor(asset, channel string) string {
	if channel != "" {
		return channel
	}
	if sub, ok := defaultSubreddits[strings.ToLower(asset)]; ok {
		return sub
	}
	return asset
}

func stocktwitsSymbolFor(asset, channel string) string {
	if channel != "" {
		return channel
	}
	if sym, ok := stocktwitsSymbols[strings.ToLower(asset)]; ok {
		return sym
	}
	return strings.ToUpper(asset) + ".X"
}

func keywordsFor(asset string) []string {
	if kw, ok := assetKeywords[strings.ToLower(asset)]; ok {
		return kw
	}
	return []string{strings.ToLower(asset)}
}

func matchesAnyKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// stripTags flattens inline HTML (4chan comments, RSS descriptions) into
// plain text; entity decoding is the normalizer's job.
func stripTags(s string) string {
	return htmlTagRe.ReplaceAllString(strings.ReplaceAll(s, "<br>", " "), " ")
}
