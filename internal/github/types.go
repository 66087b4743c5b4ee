package github

import (
	"fmt"
	"time"

	"github.com/nhle/ghnotify/internal/model"
)

// timestampLayouts are the accepted wire formats for timestamps, tried
// in order: RFC 3339 with fractional seconds first, then without.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	time.RFC3339,
}

// Timestamp is a time.Time that unmarshals from either RFC 3339
// variant the API emits. A string matching neither layout is a decode
// error, not a silently zeroed value.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		t.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timestamp is not a JSON string: %s", s)
	}
	s = s[1 : len(s)-1]

	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("unparseable timestamp %q: %w", s, lastErr)
}

// apiUser is the wire shape of a user reference.
type apiUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

func (u *apiUser) toModel() *model.UserRef {
	if u == nil {
		return nil
	}
	return &model.UserRef{
		ID:        u.ID,
		Login:     u.Login,
		AvatarURL: u.AvatarURL,
	}
}

// apiThread is the wire shape of one notification thread.
type apiThread struct {
	ID         string     `json:"id"`
	Unread     bool       `json:"unread"`
	Reason     string     `json:"reason"`
	UpdatedAt  Timestamp  `json:"updated_at"`
	LastReadAt *Timestamp `json:"last_read_at"`
	URL        string     `json:"url"`

	Subject struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Type  string `json:"type"`
	} `json:"subject"`

	Repository struct {
		FullName string   `json:"full_name"`
		Owner    *apiUser `json:"owner"`
	} `json:"repository"`
}

func (t apiThread) toModel() model.Thread {
	thread := model.Thread{
		ID:                 t.ID,
		RepositoryFullName: t.Repository.FullName,
		RepositoryOwner:    t.Repository.Owner.toModel(),
		SubjectTitle:       t.Subject.Title,
		SubjectType:        t.Subject.Type,
		SubjectURL:         t.Subject.URL,
		Reason:             t.Reason,
		Unread:             t.Unread,
		UpdatedAt:          t.UpdatedAt.Time,
		URL:                t.URL,
	}
	if t.LastReadAt != nil {
		thread.LastReadAt = t.LastReadAt.Time
	}
	return thread
}

// apiSubjectDetail is the wire shape of a subject resource (issue, PR,
// commit, release). Only the fields the enricher cares about are
// modeled; everything else is ignored.
type apiSubjectDetail struct {
	HTMLURL            string    `json:"html_url"`
	User               *apiUser  `json:"user"`
	Author             *apiUser  `json:"author"`
	Committer          *apiUser  `json:"committer"`
	RequestedReviewers []apiUser `json:"requested_reviewers"`
	Assignees          []apiUser `json:"assignees"`
}

// participants extracts user references in fixed priority order
// (primary actor, author, committer, requested reviewers, assignees),
// deduplicated by user id as encountered.
func (d apiSubjectDetail) participants() []model.UserRef {
	var out []model.UserRef
	seen := make(map[int64]bool)

	add := func(u *apiUser) {
		if u == nil || u.ID == 0 || seen[u.ID] {
			return
		}
		seen[u.ID] = true
		out = append(out, *u.toModel())
	}

	add(d.User)
	add(d.Author)
	add(d.Committer)
	for i := range d.RequestedReviewers {
		add(&d.RequestedReviewers[i])
	}
	for i := range d.Assignees {
		add(&d.Assignees[i])
	}

	return out
}

// apiViewer is the wire shape of the authenticated user endpoint.
type apiViewer struct {
	Login string `json:"login"`
}
