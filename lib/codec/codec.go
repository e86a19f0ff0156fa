// Package codec handles the opaque id encoding used by the upstream and a
// couple of URL helpers shared across the scraper and the serving layer.
//
// Composite entity ids are colon-delimited strings (for example
// "S:<ownerID>:VK:<photoID>") passed through standard base64. Packing is
// reversible, which lets the scraper recover an owner id embedded in a
// container id.
package codec

import (
	"encoding/base64"
	"net/url"
	"strings"
)

// PackID applies the upstream opaque-id encoding to a colon-delimited
// composite id.
func PackID(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// UnpackID reverses PackID, recovering the colon-delimited segments.
func UnpackID(id string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(id)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// URLBasename returns the last non-empty path segment of a URL, which is how
// usernames and group tokens are recovered from canonical profile links.
func URLBasename(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	segments := strings.Split(parsed.Path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}

// StripHost removes the scheme and host from a URL, leaving the path, query
// and fragment. Used to rewrite upstream redirects into local routes.
func StripHost(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	parsed.Scheme = ""
	parsed.Host = ""
	return parsed.String()
}
