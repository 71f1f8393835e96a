package pdfink

import (
	"fmt"
	"strings"
)

// displayBase returns the capitalized label stem used for display names of
// kind k, e.g. "Rectangle" for KindRectangle.
func displayBase(k Kind) string {
	s := string(k)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// NextName returns the next unused display name for kind k given the
// existing collection, scanning for the lowest free sequence number:
// "Rectangle 1", "Rectangle 2", ...
func NextName(k Kind, existing Collection) string {
	base := displayBase(k)
	used := make(map[string]bool, len(existing))
	for _, a := range existing {
		used[a.GetCommon().Name] = true
	}
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s %d", base, n)
		if !used[name] {
			return name
		}
	}
}
