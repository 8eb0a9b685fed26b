package generation

import "strings"

// MaxHashtags caps DeriveHashtags.
const MaxHashtags = 5

// DeriveHashtags lower-cases topic, takes its first five whitespace
// separated words, drops every character outside [a-z0-9] and prefixes
// "#". A word with no surviving characters becomes a bare "#".
func DeriveHashtags(topic string) []string {
	words := strings.Fields(strings.ToLower(topic))
	if len(words) > MaxHashtags {
		words = words[:MaxHashtags]
	}

	tags := make([]string, 0, len(words))
	for _, w := range words {
		tags = append(tags, "#"+strings.Map(keepAlnum, w))
	}
	return tags
}

func keepAlnum(r rune) rune {
	if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
		return r
	}
	return -1
}

// AppendHashtags joins content and tags the way saved drafts store them.
func AppendHashtags(content string, tags []string) string {
	if len(tags) == 0 {
		return content
	}
	return strings.TrimRight(content, " \n") + "\n\n" + strings.Join(tags, " ")
}
