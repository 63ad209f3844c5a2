package n8n

import (
	"net/url"
	"sort"
	"strings"
)

// DefaultBaseURL is the n8n API base URL used when nothing else is configured.
const DefaultBaseURL = "https://api.n8n.io/v1"

// JoinURL trims exactly one trailing slash from base and one leading slash
// from path, then joins them with "/".
func JoinURL(base, path string) string {
	base = strings.TrimSuffix(base, "/")
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return base
	}
	return base + "/" + path
}

// HostRoot returns scheme://host of base, dropping any path. Webhook, form
// and run endpoints live at the instance root, not under the API path.
func HostRoot(base string) string {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.TrimSuffix(base, "/")
	}
	return u.Scheme + "://" + u.Host
}

// PathEscape escapes one path segment (an id coming from a tool argument).
func PathEscape(segment string) string {
	return url.PathEscape(segment)
}

// EscapePath escapes every segment of a multi-segment path such as a webhook
// path, keeping the "/" separators.
func EscapePath(p string) string {
	segments := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
