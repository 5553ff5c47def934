package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// TextLine is one "<qty>x <label>" segment of a stored items text.
type TextLine struct {
	Quantity int
	Label    string
}

var linePattern = regexp.MustCompile(`(?i)^(\d+)x\s+(.+)$`)

// FormatItemsText renders items as "2x Dumbbell 20kg, 1x Rower".
func FormatItemsText(items []LineItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, strconv.Itoa(it.Quantity)+"x "+it.Label())
	}
	return strings.Join(parts, ", ")
}

// ParseItemsText splits on commas and keeps the segments that match
// "<integer>x <name>" with a positive quantity. Anything else is skipped.
func ParseItemsText(text string) []TextLine {
	var lines []TextLine
	for _, seg := range strings.Split(text, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		m := linePattern.FindStringSubmatch(seg)
		if m == nil {
			continue
		}
		qty, err := strconv.Atoi(m[1])
		if err != nil || qty <= 0 {
			continue
		}
		label := strings.TrimSpace(m[2])
		if label == "" {
			continue
		}
		lines = append(lines, TextLine{Quantity: qty, Label: label})
	}
	return lines
}
