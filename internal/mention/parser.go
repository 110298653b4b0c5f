// Package mention extracts @username tokens from free text and resolves them
// against team membership.
package mention

import "regexp"

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// Parse returns the usernames mentioned in text as @username tokens, without
// the @ symbol, duplicate-free and in order of first appearance.
func Parse(text string) []string {
	if text == "" {
		return nil
	}

	matches := mentionPattern.FindAllStringSubmatch(text, -1)

	seen := make(map[string]struct{}, len(matches))
	var names []string
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}

	return names
}
