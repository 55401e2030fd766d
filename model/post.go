package model

import (
	"time"
)

// Retrieval methods a source adapter can use. A platform may be reachable
// through both, in which case each (source, method) pair is a distinct
// collection surface with its own uids.
const (
	MethodHTTP    = "http"
	MethodBrowser = "browser-automation"
)

// Human sentiment labels as tagged by platform users (StockTwits). These are
// the ground truth used to validate classifier output.
const (
	LabelBullish = "Bullish"
	LabelBearish = "Bearish"
	LabelNeutral = "Neutral"
)

/*
Post is one collected social media post about a crypto asset.

Uid: primary key, md5 of "source:method:external_id". This is the sole
identity and the deduplication key: re-collecting the same platform post is
a no-op.

ExternalId: the platform-native post id (reddit fullname, tweet id, ...)
Source: platform name, for example "reddit", "stocktwits", "4chan"
Method: "http" or "browser-automation"
Title/Text: post title and body in plain text
Score: platform-native popularity signal (upvotes, likes), 0 when absent
CreatedAt: platform-reported creation time, UTC
HumanLabel: optional user-tagged sentiment (Bullish/Bearish), nil when the
platform has no self-tagging
OriginChannel: subreddit, symbol stream, board or repo the post came from
ReplyCount: number of comments/replies at collection time
ScrapedAt: collection time, always UTC

Rows are append only. The pipeline never updates or deletes a post.
*/
type Post struct {
	Uid           string    `gorm:"primaryKey" json:"uid"`
	ExternalId    string    `gorm:"index" json:"id"`
	Source        string    `gorm:"index" json:"source"`
	Method        string    `gorm:"index" json:"method"`
	Title         string    `json:"title"`
	Text          string    `json:"text"`
	Score         int       `json:"score"`
	CreatedAt     time.Time `gorm:"autoCreateTime:false" json:"created_at"`
	HumanLabel    *string   `json:"human_label"`
	Author        string    `json:"author"`
	OriginChannel string    `gorm:"index" json:"origin_channel"`
	Url           string    `json:"url"`
	ReplyCount    int       `json:"reply_count"`
	ScrapedAt     time.Time `gorm:"index" json:"scraped_at"`
}
