package collector_instances

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/google/go-github/github"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/cryptopulse/cryptopulse/collector"
	"github.com/cryptopulse/cryptopulse/model"
	Logger "github.com/cryptopulse/cryptopulse/utils/log"
)

// GithubCollector reads recent issues from the asset's core repositories.
// Discussion there skews technical but spikes around the same events the
// social platforms react to. A GITHUB_TOKEN raises the rate limit from 60
// to 5000 requests per hour; without one we still work, just slower to ban.
type GithubCollector struct {
	Client *github.Client
}

func NewGithubCollector(ctx context.Context) *GithubCollector {
	var httpClient *http.Client
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		))
	}
	return &GithubCollector{Client: github.NewClient(httpClient)}
}

func (GithubCollector) Source() string { return "github" }
func (GithubCollector) Method() string { return model.MethodHTTP }

func (g *GithubCollector) Collect(ctx context.Context, task collector.Task) ([]model.Post, error) {
	repos, ok := assetRepos[task.Asset]
	if !ok {
		repos = assetRepos["bitcoin"]
	}
	limit := task.Limit
	if limit <= 0 {
		limit = 200
	}

	var posts []model.Post
	for _, ref := range repos {
		if len(posts) >= limit {
			break
		}

		opt := &github.IssueListByRepoOptions{
			State:       "all",
			Sort:        "created",
			Direction:   "desc",
			ListOptions: github.ListOptions{PerPage: min(100, limit-len(posts))},
		}
		issues, _, err := g.Client.Issues.ListByRepo(ctx, ref.Owner, ref.Repo, opt)
		if err != nil {
			if len(posts) == 0 {
				return nil, errors.Wrapf(collector.ErrPlatformUnreachable, "github: %v", err)
			}
			Logger.Log.Warnf("github %s/%s listing failed after %d posts: %v",
				ref.Owner, ref.Repo, len(posts), err)
			return posts, nil
		}

		channel := ref.Owner + "/" + ref.Repo
		for _, issue := range issues {
			if len(posts) >= limit {
				break
			}
			// Pull requests come back from the issues API too; skip them,
			// review chatter is not market sentiment.
			if issue.IsPullRequest() {
				continue
			}
			posts = append(posts, model.Post{
				ExternalId:    fmt.Sprintf("%s#%d", channel, issue.GetNumber()),
				Source:        g.Source(),
				Method:        g.Method(),
				Title:         issue.GetTitle(),
				Text:          issue.GetBody(),
				CreatedAt:     issue.GetCreatedAt().UTC(),
				Author:        issue.GetUser().GetLogin(),
				OriginChannel: channel,
				Url:           issue.GetHTMLURL(),
				ReplyCount:    issue.GetComments(),
			})
		}
	}
	return posts, nil
}
