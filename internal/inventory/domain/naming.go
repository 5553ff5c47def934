package domain

import (
	"regexp"
	"strconv"
	"strings"
)

const CatchAllCategory = "Overige Apparatuur"

type categoryRule struct {
	keywords []string
	category string
}

// categoryRules are checked in order; the first rule with a keyword
// contained in the lowercased material name wins.
var categoryRules = []categoryRule{
	{keywords: []string{"dumbel", "dumbbel"}, category: "Dumbells"},
	{keywords: []string{"kettlebell"}, category: "Kettlebells"},
	{keywords: []string{"bumper"}, category: "Bumper Plates"},
	{keywords: []string{"rower", "bike", "ski erg"}, category: "Cardio"},
	{keywords: []string{"barbell", "bar", "j-hook"}, category: "Barbells & Bars"},
}

func Category(material string) string {
	name := strings.ToLower(material)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return CatchAllCategory
}

var (
	totalSuffix = regexp.MustCompile(`(?i)\s*\(totaal\)\s*`)
	setSuffix   = regexp.MustCompile(`(?i)\s*\(set\)\s*`)
	nonAlnum    = regexp.MustCompile(`[^a-z0-9]`)
	dashes      = regexp.MustCompile(`-+`)
)

// CleanName strips "(totaal)" annotations and normalizes "(set)" spacing.
func CleanName(material string) string {
	s := totalSuffix.ReplaceAllString(material, "")
	s = setSuffix.ReplaceAllString(s, " (set)")
	return strings.TrimSpace(s)
}

// ItemID builds the stable listing id "<slug>[-<weight>]-<position>".
func ItemID(material string, weight *float64, position int) string {
	slug := nonAlnum.ReplaceAllString(strings.ToLower(material), "-")
	slug = dashes.ReplaceAllString(slug, "-")
	if len(slug) > 20 {
		slug = slug[:20]
	}
	if weight != nil {
		slug += "-" + formatNumber(*weight)
	}
	return slug + "-" + strconv.Itoa(position)
}
