package storage

import (
	"fmt"
	"net/url"
)

// DirectDownloadLink rewrites a Dropbox shared link so that opening it
// downloads the file instead of showing the preview page. Dropbox issues
// links with dl=0; dl=1 forces the download while keeping other parameters
// such as rlkey intact.
func DirectDownloadLink(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse shared link: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("parse shared link: not an absolute URL: %q", raw)
	}

	q := u.Query()
	q.Del("raw")
	q.Set("dl", "1")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
