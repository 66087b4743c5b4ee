package model

import "time"

// UserRef is a reference to a GitHub user. Identity is ID: two
// references with the same ID are the same user regardless of where
// they were found.
type UserRef struct {
	// ID is the numeric GitHub user id.
	ID int64 `json:"id"`

	// Login is the user's handle.
	Login string `json:"login"`

	// AvatarURL points at the user's avatar image.
	AvatarURL string `json:"avatar_url"`
}

// Thread is one item from the GitHub notifications feed. Threads are
// constructed only by decoding a fetch response and are never mutated
// in place; a newer poll cycle replaces them wholesale.
type Thread struct {
	// ID is the stable unique identifier used for deduplication.
	ID string `json:"id"`

	// RepositoryFullName is the "owner/name" of the repository the
	// notification belongs to.
	RepositoryFullName string `json:"repository_full_name"`

	// RepositoryOwner is the owning user or organization, used as a
	// fallback avatar source.
	RepositoryOwner *UserRef `json:"repository_owner,omitempty"`

	// SubjectTitle is the title of the underlying issue/PR/commit.
	SubjectTitle string `json:"subject_title"`

	// SubjectType identifies the underlying resource kind
	// (Issue, PullRequest, Commit, Release, ...).
	SubjectType string `json:"subject_type"`

	// SubjectURL is the API URL of the underlying resource, used for
	// detail enrichment. Empty for subjects without one.
	SubjectURL string `json:"subject_url,omitempty"`

	// Reason explains why the notification fired (mention, review_requested, ...).
	Reason string `json:"reason"`

	// Unread reports whether the thread has been read.
	Unread bool `json:"unread"`

	// UpdatedAt is when the thread was last updated upstream.
	UpdatedAt time.Time `json:"updated_at"`

	// LastReadAt is when the thread was last read; zero if never.
	LastReadAt time.Time `json:"last_read_at,omitzero"`

	// URL is the feed's own locator for the thread, always present.
	URL string `json:"url"`
}

// SubjectDetails is the secondary enrichment result for one thread.
type SubjectDetails struct {
	// WebURL is the browser-facing URL of the subject. When non-empty
	// it overrides the thread's own URL as the open target.
	WebURL string `json:"web_url,omitempty"`

	// Participants are the users involved with the subject, unique by
	// user id, in first-seen order: primary actor, author, committer,
	// requested reviewers, assignees.
	Participants []UserRef `json:"participants,omitempty"`
}
