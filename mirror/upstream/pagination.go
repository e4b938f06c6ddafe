package upstream

import (
	"net/url"
	"strconv"
	"strings"
)

// LastPage reads the page number of the rel="last" link from a Link header.
// It reports false when the header has no last link, which means there is a single page.
func LastPage(link string) (int, bool) {
	for _, part := range strings.Split(link, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		isLast := false
		for _, param := range segments[1:] {
			if strings.TrimSpace(param) == `rel="last"` {
				isLast = true
				break
			}
		}
		if !isLast {
			continue
		}
		raw := strings.Trim(strings.TrimSpace(segments[0]), "<>")
		u, err := url.Parse(raw)
		if err != nil {
			return 0, false
		}
		page, err := strconv.Atoi(u.Query().Get("page"))
		if err != nil || page < 1 {
			return 0, false
		}
		return page, true
	}
	return 0, false
}
