package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nhle/ghnotify/internal/model"
)

// PageResult is one fetched page of the notifications feed.
type PageResult struct {
	// Threads are the decoded notification threads in feed order.
	Threads []model.Thread

	// HasNext reports whether the continuation-link header advertised
	// a further page.
	HasNext bool
}

// FetchPage retrieves one page of notification threads. page is floored
// to 1 and perPage clamped into its valid range before use. HasNext is
// derived from the Link response header's rel="next" entry; a missing
// header or relation means no further pages.
func (c *Client) FetchPage(ctx context.Context, page, perPage int) (PageResult, error) {
	if page < 1 {
		page = 1
	}
	perPage = model.ClampPageSize(perPage)

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	u := c.apiURL("/notifications") + "?" + q.Encode()

	r, err := c.do(ctx, http.MethodGet, u)
	if err != nil {
		return PageResult{}, err
	}

	var raw []apiThread
	if err := json.Unmarshal(r.body, &raw); err != nil {
		return PageResult{}, &DecodeError{URL: u, Err: err}
	}

	threads := make([]model.Thread, 0, len(raw))
	for _, t := range raw {
		threads = append(threads, t.toModel())
	}

	return PageResult{
		Threads: threads,
		HasNext: hasNextLink(r.header.Get("Link")),
	}, nil
}

// hasNextLink reports whether a Link header contains a rel="next"
// relation. Entries look like:
//
//	<https://api.github.com/notifications?page=2>; rel="next", <...>; rel="last"
func hasNextLink(link string) bool {
	if link == "" {
		return false
	}
	for _, entry := range strings.Split(link, ",") {
		parts := strings.Split(entry, ";")
		for _, p := range parts[1:] {
			p = strings.TrimSpace(p)
			if p == `rel="next"` || p == "rel=next" {
				return true
			}
		}
	}
	return false
}

// FetchSubject retrieves the secondary subject resource behind a
// thread's lookup URL and extracts the enrichment details from it.
func (c *Client) FetchSubject(ctx context.Context, lookupURL string) (*model.SubjectDetails, error) {
	var raw apiSubjectDetail
	if err := c.getJSON(ctx, lookupURL, &raw); err != nil {
		return nil, err
	}
	return &model.SubjectDetails{
		WebURL:       raw.HTMLURL,
		Participants: raw.participants(),
	}, nil
}
