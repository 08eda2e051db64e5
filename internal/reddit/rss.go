package reddit

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/matheuskafuri/subnews/internal/textutil"
	"github.com/mmcdole/gofeed"
)

// RSSFetcher reads the Atom feed at /r/{sub}/new.rss. The feed carries no
// vote or comment counts, so those are always zero.
type RSSFetcher struct {
	parser  *gofeed.Parser
	baseURL string
}

func NewRSSFetcher(opts Options) *RSSFetcher {
	opts = opts.withDefaults()
	p := gofeed.NewParser()
	p.Client = opts.HTTPClient
	p.UserAgent = opts.UserAgent
	return &RSSFetcher{parser: p, baseURL: opts.BaseURL}
}

func (f *RSSFetcher) Fetch(ctx context.Context, subreddit string) ([]Post, error) {
	name, err := NormalizeSubreddit(subreddit)
	if err != nil {
		return nil, err
	}

	feedURL := f.baseURL + "/r/" + url.PathEscape(name) + "/new.rss"
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			if se := statusErr(httpErr.StatusCode); se != nil {
				return nil, fmt.Errorf("fetching r/%s: %w", name, se)
			}
		}
		return nil, fmt.Errorf("fetching r/%s: %w", name, err)
	}
	if len(feed.Items) == 0 {
		return nil, ErrNoPosts
	}

	posts := make([]Post, 0, len(feed.Items))
	for _, item := range feed.Items {
		posts = append(posts, itemPost(item, name))
	}
	return posts, nil
}

func itemPost(item *gofeed.Item, subreddit string) Post {
	p := Post{
		ID:        strings.TrimPrefix(item.GUID, "t3_"),
		Subreddit: subreddit,
		Title:     item.Title,
		Permalink: item.Link,
		URL:       item.Link,
		Selftext:  textutil.FromHTML(item.Content),
	}
	if len(item.Categories) > 0 && item.Categories[0] != "" {
		p.Subreddit = item.Categories[0]
	}
	if item.Author != nil {
		p.Author = item.Author.Name
	} else if len(item.Authors) > 0 && item.Authors[0] != nil {
		p.Author = item.Authors[0].Name
	}
	p.Author = strings.TrimPrefix(p.Author, "/u/")
	if item.PublishedParsed != nil {
		p.Created = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		p.Created = *item.UpdatedParsed
	}
	return p
}
