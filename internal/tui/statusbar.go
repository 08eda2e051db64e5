package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const (
	inputHints = " enter load  tab list  ctrl+c quit "
	listHints  = " / query  c copy  y copy+text  o open  r reload  ? help  q quit "
)

func renderStatusBar(left string, inputFocused bool, width int) string {
	right := listHints
	if inputFocused {
		right = inputHints
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}

func statusSummary(state viewState, subreddit string, count int) string {
	switch state {
	case stateLoading:
		return fmt.Sprintf(" loading r/%s", subreddit)
	case stateLoaded:
		if count == 1 {
			return fmt.Sprintf(" 1 post · r/%s", subreddit)
		}
		return fmt.Sprintf(" %d posts · r/%s", count, subreddit)
	case stateError:
		if subreddit == "" {
			return " no query"
		}
		return fmt.Sprintf(" r/%s", subreddit)
	default:
		return " ready"
	}
}
