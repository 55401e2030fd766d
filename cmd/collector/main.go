package main

import (
	"context"
	stdflag "flag"
	"os"
	"time"

	"github.com/cryptopulse/cryptopulse/collector"
	"github.com/cryptopulse/cryptopulse/collector/builder"
	"github.com/cryptopulse/cryptopulse/collector/handler"
	"github.com/cryptopulse/cryptopulse/collector/sink"
	"github.com/cryptopulse/cryptopulse/store"
	"github.com/cryptopulse/cryptopulse/utils"
	"github.com/cryptopulse/cryptopulse/utils/dotenv"
	Logger "github.com/cryptopulse/cryptopulse/utils/log"
)

var (
	source  = stdflag.String("source", "", "platform to collect from, for example reddit, 4chan, stocktwits")
	method  = stdflag.String("method", "", "retrieval method, http or browser-automation; defaults per source")
	asset   = stdflag.String("asset", "bitcoin", "asset the task targets")
	channel = stdflag.String("channel", "", "subreddit, symbol, board or repo override")
	limit   = stdflag.Int("limit", 100, "maximum number of posts to collect")
	timeout = stdflag.Duration("timeout", 5*time.Minute, "overall task deadline")
	dryRun  = stdflag.Bool("dry_run", false, "log collected posts instead of storing them")
)

// One-shot collection run: look up the adapter for (source, method), run the
// task and print the outcome. Cron owns the scheduling.
func main() {
	stdflag.Parse()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	if *source == "" {
		Logger.Log.Fatal("-source is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	col, err := builder.Lookup(builder.EnabledCollectors(ctx), *source, *method)
	if err != nil {
		Logger.Log.Fatalf("fail to resolve adapter: %v", err)
	}

	var out sink.CollectedPostSink
	if *dryRun {
		out = sink.NewStdErrSink()
	} else {
		db, err := utils.GetDBConnection()
		if err != nil {
			Logger.Log.Fatalf("fail to connect database: %v", err)
		}
		if err := utils.DatabaseSetupAndMigration(db); err != nil {
			Logger.Log.Fatalf("fail to migrate database: %v", err)
		}
		journal, err := store.OpenJournal(journalPath())
		if err != nil {
			Logger.Log.Fatalf("fail to open journal: %v", err)
		}
		defer journal.Close()
		out = sink.NewStoreSink(store.NewPostStore(db, journal))
	}

	h := handler.DataCollectJobHandler{Sink: out}
	meta, err := h.Collect(ctx, col, collector.NewTask(*asset, *channel, *limit))
	if err != nil {
		Logger.Log.Fatalf("collection failed: %v", err)
	}
	Logger.Log.Infof("%d collected, %d new, %d duplicate in %.1fs",
		meta.Collected, meta.New, meta.Duplicate, meta.ElapsedSec)
}

func journalPath() string {
	if p := os.Getenv("JOURNAL_PATH"); p != "" {
		return p
	}
	return "data/scraped_posts.jsonl"
}
