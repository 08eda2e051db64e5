package reddit

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyQuery = errors.New("subreddit name is empty")
	ErrPrivate    = errors.New("subreddit is private or quarantined")
	ErrNotFound   = errors.New("subreddit not found")
	ErrNoPosts    = errors.New("no posts found")
)

// StatusError is returned for any non-2xx response that has no dedicated sentinel.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.Code)
}

// statusErr maps an HTTP status code to the error taxonomy. It returns nil for 2xx.
func statusErr(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == 403:
		return ErrPrivate
	case code == 404:
		return ErrNotFound
	default:
		return &StatusError{Code: code}
	}
}

// Message turns a fetch error into the text shown to the user in place of the list.
func Message(err error, subreddit string) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyQuery):
		return "Please enter a subreddit name"
	case errors.Is(err, ErrPrivate):
		return "This subreddit is private or quarantined"
	case errors.Is(err, ErrNotFound):
		return "Subreddit not found"
	case errors.Is(err, ErrNoPosts):
		if subreddit == "" {
			return "No posts found"
		}
		return fmt.Sprintf("No posts found in r/%s", subreddit)
	case errors.As(err, &se):
		return fmt.Sprintf("Failed to fetch posts (HTTP %d)", se.Code)
	default:
		return "Failed to fetch posts"
	}
}
