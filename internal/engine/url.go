package engine

import (
	"strings"

	"github.com/nhle/ghnotify/internal/model"
)

// webURLForThread maps a thread's API locator onto its browser-facing
// form. Subject URLs look like
//
//	https://api.github.com/repos/{owner}/{repo}/pulls/{n}
//	https://api.github.com/repos/{owner}/{repo}/issues/{n}
//	https://api.github.com/repos/{owner}/{repo}/commits/{sha}
//
// Anything unrecognized falls back to the repository page.
func webURLForThread(t model.Thread) string {
	const apiPrefix = "https://api.github.com/repos/"

	if strings.HasPrefix(t.SubjectURL, apiPrefix) {
		rest := strings.TrimPrefix(t.SubjectURL, apiPrefix)
		parts := strings.Split(rest, "/")
		// owner/repo/kind/identifier
		if len(parts) >= 4 {
			owner, repo, kind := parts[0], parts[1], parts[2]
			id := strings.Join(parts[3:], "/")
			switch kind {
			case "pulls":
				return "https://github.com/" + owner + "/" + repo + "/pull/" + id
			case "issues":
				return "https://github.com/" + owner + "/" + repo + "/issues/" + id
			case "commits":
				return "https://github.com/" + owner + "/" + repo + "/commit/" + id
			case "releases":
				return "https://github.com/" + owner + "/" + repo + "/releases"
			}
		}
	}

	if t.RepositoryFullName != "" {
		return "https://github.com/" + t.RepositoryFullName
	}
	return ""
}
