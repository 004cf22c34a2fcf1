package lanplay

import "strings"

// FormatURL turns a bare relay address into a query endpoint: "http://" is
// prepended when no scheme is present and a trailing "/" is enforced.
func FormatURL(url string) string {
	url = strings.TrimSpace(url)
	if !strings.Contains(url, "://") {
		url = "http://" + url
	}
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}

	return url
}
