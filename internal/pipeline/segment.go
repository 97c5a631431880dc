package pipeline

import (
	"regexp"
	"strings"
)

// SegmentItems splits a section span before every marker. Text ahead of the
// first marker is not an item and is dropped.
func SegmentItems(span, marker string) []string {
	if marker == "" {
		return nil
	}
	parts := strings.Split(span, marker)
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		if i == 0 {
			continue
		}
		out = append(out, strings.TrimSpace(marker+part))
	}
	return out
}

func itemPrefixPattern(marker string) *regexp.Regexp {
	return regexp.MustCompile(`^\s*(?:` + regexp.QuoteMeta(marker) + `)?\s*\d+\.`)
}

// StripItemNumber removes the leading marker and item number.
func StripItemNumber(item, marker string) string {
	return itemPrefixPattern(marker).ReplaceAllString(item, "")
}
