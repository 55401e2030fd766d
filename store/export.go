package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/cryptopulse/cryptopulse/model"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Column order of CSV exports, matching the Post field list.
var csvHeader = []string{
	"uid", "id", "source", "method", "title", "text", "score", "created_at",
	"human_label", "author", "origin_channel", "url", "reply_count", "scraped_at",
}

// Export materializes the filtered query result as a flat file under dir and
// returns its path. The artifact name carries a UTC timestamp:
// scrapes_<source>_<method>_<YYYYMMDDHHMMSS>.<csv|json>, with "all" standing
// in for an absent filter. The write is all-or-nothing: content goes to a
// temp file first and is renamed into place only on success.
func (s *PostStore) Export(format string, f Filters, dir string) (string, error) {
	if format != FormatCSV && format != FormatJSON {
		return "", errors.Errorf("unsupported export format %q", format)
	}

	posts, err := s.Query(f)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "fail to create export dir")
	}

	path := filepath.Join(dir, exportFileName(format, f))
	tmp, err := os.CreateTemp(dir, ".export_*")
	if err != nil {
		return "", errors.Wrap(err, "fail to create export file")
	}

	if format == FormatCSV {
		err = writeCSV(tmp, posts)
	} else {
		err = writeJSON(tmp, posts)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", errors.Wrap(err, "fail to write export")
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", errors.Wrap(err, "fail to finalize export")
	}
	return path, nil
}

func exportFileName(format string, f Filters) string {
	source, method := f.Source, f.Method
	if source == "" {
		source = "all"
	}
	if method == "" {
		method = "all"
	}
	ts := time.Now().UTC().Format("20060102150405")
	return fmt.Sprintf("scrapes_%s_%s_%s.%s", source, method, ts, format)
}

func writeCSV(f *os.File, posts []model.Post) error {
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range posts {
		label := ""
		if p.HumanLabel != nil {
			label = *p.HumanLabel
		}
		row := []string{
			p.Uid, p.ExternalId, p.Source, p.Method, p.Title, p.Text,
			strconv.Itoa(p.Score), p.CreatedAt.UTC().Format(time.RFC3339),
			label, p.Author, p.OriginChannel, p.Url,
			strconv.Itoa(p.ReplyCount), p.ScrapedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(f *os.File, posts []model.Post) error {
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(posts)
}
