package services

import (
	"fmt"
	"strings"
)

// isDataImage reports whether u is an inline image. Other URLs are never
// rendered into a printed quote.
func isDataImage(u string) bool {
	return strings.HasPrefix(u, "data:image/")
}

func taxLabel(percent float64) string {
	return fmt.Sprintf("Thuế (%s%%)", FormatQty(percent))
}
