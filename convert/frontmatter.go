package convert

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontMatter holds the YAML fields slackify understands
type FrontMatter struct {
	Title string `yaml:"title"`
}

// ExtractFrontMatter splits a leading "---" delimited YAML block from content.
// If there is no complete block, or it is not valid YAML, content is returned unchanged.
func ExtractFrontMatter(content string) (FrontMatter, string) {
	var fm FrontMatter
	lines := strings.Split(content, "\n")

	// Check for front matter delimiters
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return fm, content
	}

	// Find end of front matter
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return fm, content
	}

	yamlContent := strings.Join(lines[1:end], "\n")
	if err := yaml.Unmarshal([]byte(yamlContent), &fm); err != nil {
		return FrontMatter{}, content
	}

	// Skip leading blank lines in body
	body := lines[end+1:]
	for len(body) > 0 && strings.TrimSpace(body[0]) == "" {
		body = body[1:]
	}

	return fm, strings.Join(body, "\n")
}
