package tui

import (
	"github.com/matheuskafuri/subnews/internal/reddit"
)

// debounceMsg fires after the quiet period following a query edit.
type debounceMsg struct {
	seq int
}

type postsLoadedMsg struct {
	gen       int
	subreddit string
	posts     []reddit.Post
}

type fetchErrMsg struct {
	gen       int
	subreddit string
	err       error
}

type copyResultMsg struct {
	postID string
	kind   copyKind
	err    error
}

// copyResetMsg clears the acknowledgement created with the same token.
type copyResetMsg struct {
	token int
}

type browserErrMsg struct {
	err error
}
