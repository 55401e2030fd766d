package builder

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/cryptopulse/cryptopulse/collector"
	collector_instances "github.com/cryptopulse/cryptopulse/collector/instances"
	"github.com/cryptopulse/cryptopulse/model"
	Logger "github.com/cryptopulse/cryptopulse/utils/log"
)

type CollectorBuilder struct{}

// HTTP collectors
func (CollectorBuilder) NewRedditHttpCollector() collector.PostCollector {
	return collector_instances.NewRedditHttpCollector()
}

func (CollectorBuilder) NewChan4ApiCollector() collector.PostCollector {
	return collector_instances.NewChan4ApiCollector()
}

func (CollectorBuilder) NewBitcointalkCollector() collector.PostCollector {
	return collector_instances.NewBitcointalkCollector()
}

func (CollectorBuilder) NewGithubCollector(ctx context.Context) collector.PostCollector {
	return collector_instances.NewGithubCollector(ctx)
}

func (CollectorBuilder) NewTwitterCollector() collector.PostCollector {
	return collector_instances.NewTwitterCollector()
}

func (CollectorBuilder) NewRssCollector() collector.PostCollector {
	return collector_instances.NewRssCollector()
}

// Browser-automation collectors
func (CollectorBuilder) NewStocktwitsCollector() collector.PostCollector {
	return collector_instances.NewStocktwitsCollector()
}

func (CollectorBuilder) NewRedditBrowserCollector() collector.PostCollector {
	return collector_instances.NewRedditBrowserCollector()
}

// EnabledCollectors assembles every adapter whose configuration is
// satisfied, keyed by "source/method". A platform with missing credentials
// is left out rather than failing the whole system.
func EnabledCollectors(ctx context.Context) map[string]collector.PostCollector {
	var b CollectorBuilder
	enabled := map[string]collector.PostCollector{}

	add := func(c collector.PostCollector) {
		enabled[CollectorKey(c.Source(), c.Method())] = c
	}

	add(b.NewRedditHttpCollector())
	add(b.NewChan4ApiCollector())
	add(b.NewBitcointalkCollector())
	add(b.NewTwitterCollector())
	add(b.NewRssCollector())
	add(b.NewStocktwitsCollector())
	add(b.NewRedditBrowserCollector())

	// Unauthenticated github caps out at 60 requests/hour, which is below
	// what a single collection run needs.
	if os.Getenv("GITHUB_TOKEN") != "" {
		add(b.NewGithubCollector(ctx))
	} else {
		Logger.Log.Info("GITHUB_TOKEN not set, github adapter disabled")
	}

	return enabled
}

func CollectorKey(source, method string) string {
	return source + "/" + method
}

// Lookup finds the adapter for (source, method), defaulting the method to
// http when unspecified.
func Lookup(enabled map[string]collector.PostCollector, source, method string) (collector.PostCollector, error) {
	if method == "" {
		method = model.MethodHTTP
		if source == "stocktwits" {
			method = model.MethodBrowser
		}
	}
	c, ok := enabled[CollectorKey(source, method)]
	if !ok {
		return nil, errors.Errorf("no enabled adapter for %s/%s", source, method)
	}
	return c, nil
}
