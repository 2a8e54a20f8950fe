package blogservice

import "strings"

// parseCategories splits comma separated input into trimmed, non-empty
// categories. Order and duplicates are kept. The result is never nil.
func parseCategories(s string) []string {
	categories := []string{}
	for _, c := range strings.Split(s, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			categories = append(categories, c)
		}
	}
	return categories
}
