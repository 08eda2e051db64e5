package reddit

import (
	"strings"
	"time"
)

// Post is a single submission from a subreddit listing.
type Post struct {
	ID          string
	Subreddit   string
	Title       string
	Author      string
	Ups         int
	NumComments int
	Permalink   string
	URL         string
	Selftext    string
	Created     time.Time
}

// Link returns the absolute URL of the post's comment page.
func (p Post) Link() string {
	if p.Permalink == "" {
		return p.URL
	}
	if strings.HasPrefix(p.Permalink, "http://") || strings.HasPrefix(p.Permalink, "https://") {
		return p.Permalink
	}
	return webBase + p.Permalink
}

// ClipboardText returns the text a copy action puts on the clipboard:
// the bare title, or the title followed by a blank line and the body.
func (p Post) ClipboardText(withBody bool) string {
	if !withBody || p.Selftext == "" {
		return p.Title
	}
	return p.Title + "\n\n" + p.Selftext
}

// listing mirrors the JSON envelope returned by /r/{sub}/new.json.
type listing struct {
	Data struct {
		Children []struct {
			Data listingPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type listingPost struct {
	ID          string  `json:"id"`
	Subreddit   string  `json:"subreddit"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Ups         int     `json:"ups"`
	NumComments int     `json:"num_comments"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	Selftext    string  `json:"selftext"`
	CreatedUTC  float64 `json:"created_utc"`
}

func (lp listingPost) post() Post {
	p := Post{
		ID:          lp.ID,
		Subreddit:   lp.Subreddit,
		Title:       lp.Title,
		Author:      lp.Author,
		Ups:         lp.Ups,
		NumComments: lp.NumComments,
		Permalink:   lp.Permalink,
		URL:         lp.URL,
		Selftext:    lp.Selftext,
	}
	if lp.CreatedUTC > 0 {
		p.Created = time.Unix(int64(lp.CreatedUTC), 0)
	}
	return p
}
