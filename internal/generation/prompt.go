package generation

import "strings"

// BuildPrompt renders the instruction sent to providers. Topic and tone
// are inserted verbatim.
func BuildPrompt(r Request) string {
	var b strings.Builder
	b.WriteString("Create a ")
	b.WriteString(string(r.Platform))
	b.WriteString(" post about: ")
	b.WriteString(r.Topic)
	if r.Tone != "" {
		b.WriteString("\nTone: ")
		b.WriteString(r.Tone)
	}
	if r.IncludeEmojis {
		b.WriteString("\nInclude relevant emojis.")
	}
	return b.String()
}
