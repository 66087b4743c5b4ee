package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/nhle/ghnotify/internal/model"
	"github.com/nhle/ghnotify/internal/theme"
)

// ThreadItem wraps a model.Thread so it can be used in a bubbles/list.
type ThreadItem struct {
	Thread       model.Thread
	Participants []model.UserRef
}

// FilterValue returns the string used for fuzzy filtering.
func (i ThreadItem) FilterValue() string {
	return i.Thread.SubjectTitle
}

// Title returns the thread title for the list.
func (i ThreadItem) Title() string {
	marker := " "
	if i.Thread.Unread {
		marker = theme.UnreadMarkerStyle.Render("●")
	}
	return fmt.Sprintf("%s %s %s", marker, theme.SubjectTypeLabel(i.Thread.SubjectType), i.Thread.SubjectTitle)
}

// Description returns a short summary line for the list.
func (i ThreadItem) Description() string {
	parts := []string{
		i.Thread.RepositoryFullName,
		theme.ReasonStyle(i.Thread.Reason).Render(i.Thread.Reason),
		relativeTime(i.Thread.UpdatedAt),
	}
	if len(i.Participants) > 0 {
		logins := make([]string, 0, len(i.Participants))
		for _, p := range i.Participants {
			logins = append(logins, "@"+p.Login)
		}
		parts = append(parts, strings.Join(logins, " "))
	}
	return strings.Join(parts, " | ")
}

// relativeTime renders a timestamp as a compact "how long ago" label.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
