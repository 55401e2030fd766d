package main

import (
	"context"
	stdflag "flag"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/cryptopulse/cryptopulse/collector/builder"
	"github.com/cryptopulse/cryptopulse/prices"
	"github.com/cryptopulse/cryptopulse/sentiment"
	"github.com/cryptopulse/cryptopulse/server"
	"github.com/cryptopulse/cryptopulse/store"
	"github.com/cryptopulse/cryptopulse/utils"
	"github.com/cryptopulse/cryptopulse/utils/dotenv"
	Flag "github.com/cryptopulse/cryptopulse/utils/flag"
	Logger "github.com/cryptopulse/cryptopulse/utils/log"
)

var (
	address   = stdflag.String("address", ":8000", "address the api server listens on")
	exportDir = stdflag.String("export_dir", "data/exports", "directory export artifacts are written to")
)

func main() {
	stdflag.Parse()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

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

	if utils.IsProdEnv() || !Flag.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &server.Server{
		Store:      store.NewPostStore(db, journal),
		Collectors: builder.EnabledCollectors(context.Background()),
		Sentiments: sentiment.NewRegistry(),
		Prices:     prices.NewClient(),
		ExportDir:  *exportDir,
	}

	router := gin.Default()
	srv.Register(router)

	Logger.Log.Infof("api server listening on %s", *address)
	if err := router.Run(*address); err != nil {
		Logger.Log.Fatalf("api server stopped: %v", err)
	}
}

func journalPath() string {
	if p := os.Getenv("JOURNAL_PATH"); p != "" {
		return p
	}
	return "data/scraped_posts.jsonl"
}
