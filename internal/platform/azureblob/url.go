package azureblob

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Ref locates a blob inside an account.
type Ref struct {
	Container string
	Name      string
	FileName  string
}

// ParseURL splits https://{account}.blob.core.windows.net/{container}/{name}.
// Emulator URLs (http://host:10000/{account}/{container}/{name}) are handled by
// dropping the account segment when the host is not an azure endpoint.
func ParseURL(rawURL string) (Ref, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Ref{}, fmt.Errorf("parse blob url: %w", err)
	}
	if u.Host == "" {
		return Ref{}, fmt.Errorf("blob url %q is not absolute", rawURL)
	}
	p := strings.TrimPrefix(u.Path, "/")
	if !strings.HasSuffix(strings.ToLower(u.Hostname()), DefaultHostSuffix) {
		if _, rest, ok := strings.Cut(p, "/"); ok {
			p = rest
		}
	}
	container, name, ok := strings.Cut(p, "/")
	if !ok || container == "" || strings.Trim(name, "/") == "" {
		return Ref{}, fmt.Errorf("blob url %q has no blob name", rawURL)
	}
	return Ref{Container: container, Name: name, FileName: path.Base(name)}, nil
}

func ownsURL(hosts []string, rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
