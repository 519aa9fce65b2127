package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// QuoteIDDateLayout is the time layout of a quote id's date part.
const QuoteIDDateLayout = "20060102"

// QuoteIDPrefix returns the date part of a quote id, e.g. "20260115".
func QuoteIDPrefix(t time.Time) string {
	return t.Format(QuoteIDDateLayout)
}

// formatQuoteID constructs the quote id string from its components.
func formatQuoteID(prefix string, sequence int) string {
	return fmt.Sprintf("%s-%03d", prefix, sequence)
}

// NextQuoteID creates the next quote id for the day of now.
// Format: {YYYYMMDD}-{sequence}
// - sequence: 3-digit zero-padded, one more than the highest sequence already
//   used by an id in existing with the same date prefix
func NextQuoteID(now time.Time, existing []string) string {
	prefix := QuoteIDPrefix(now)

	highest := 0
	for _, id := range existing {
		rest, ok := strings.CutPrefix(id, prefix+"-")
		if !ok {
			continue
		}
		seq, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		if seq > highest {
			highest = seq
		}
	}

	return formatQuoteID(prefix, highest+1)
}
