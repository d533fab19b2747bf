package convert

import (
	"regexp"
	"strings"
)

// mentionPattern matches Slack control sequences such as <@U123>, <#C123|general> and <!subteam^S1|team>
var mentionPattern = regexp.MustCompile(`<[@#!][^>]*>`)

// Escape entity-escapes &, < and > for mrkdwn while leaving Slack mentions intact.
//
// Every & becomes &amp;. A < becomes &lt; unless it opens a mention (followed by @, # or !).
// A > becomes &gt; unless it falls inside a mention span of the already escaped text.
func Escape(text string) string {
	if !strings.ContainsAny(text, "&<>") {
		return text
	}

	text = strings.ReplaceAll(text, "&", "&amp;")

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '<' && !opensMention(text, i) {
			b.WriteString("&lt;")
			continue
		}
		b.WriteByte(c)
	}
	text = b.String()

	if strings.IndexByte(text, '>') < 0 {
		return text
	}

	spans := mentionPattern.FindAllStringIndex(text, -1)
	b.Reset()
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '>' && !inSpan(spans, i) {
			b.WriteString("&gt;")
			continue
		}
		b.WriteByte(c)
	}

	return b.String()
}

func opensMention(text string, i int) bool {
	if i+1 >= len(text) {
		return false
	}
	switch text[i+1] {
	case '@', '#', '!':
		return true
	}
	return false
}

// inSpan reports whether offset i lies inside one of the sorted, non-overlapping spans
func inSpan(spans [][]int, i int) bool {
	for _, s := range spans {
		if i < s[0] {
			return false
		}
		if i < s[1] {
			return true
		}
	}
	return false
}
