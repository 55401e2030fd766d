package collector

import (
	"time"

	"github.com/araddon/dateparse"

	Logger "github.com/cryptopulse/cryptopulse/utils/log"
)

// Browser-looking user agent shared by HTTP adapters. Several platforms
// (reddit in particular) throttle the Go default agent aggressively.
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 Chrome/120.0.0.0"

// ParsePlatformTime parses a platform supplied timestamp in whatever loose
// format it arrives (ISO string, RFC1123, "2006/01/02 15:04", ...) and
// normalizes to UTC. Zero time and a log line on failure, never an error:
// a bad timestamp must not drop the whole record.
func ParsePlatformTime(raw string, source string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		Logger.Log.Errorf("fail to parse %s timestamp %q: %v", source, raw, err)
		return time.Time{}
	}
	return t.UTC()
}

// EpochToTime converts a float unix timestamp (reddit's created_utc shape)
// to UTC time.
func EpochToTime(epoch float64) time.Time {
	if epoch == 0 {
		return time.Time{}
	}
	return time.Unix(int64(epoch), 0).UTC()
}
