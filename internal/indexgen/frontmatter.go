package indexgen

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// frontMatter holds the fields of a post or page header that feed the index.
type frontMatter struct {
	Title       string     `yaml:"title"`
	Layout      string     `yaml:"layout"`
	Date        frontDate  `yaml:"date"`
	Categories  stringList `yaml:"categories"`
	Category    string     `yaml:"category"`
	Tags        stringList `yaml:"tags"`
	Excerpt     string     `yaml:"excerpt"`
	Description string     `yaml:"description"`
	Permalink   string     `yaml:"permalink"`
	Type        string     `yaml:"type"`
	Published   *bool      `yaml:"published"`
	Search      *bool      `yaml:"search"`
}

// included reports whether the document belongs in the index.
func (fm frontMatter) included() bool {
	if fm.Published != nil && !*fm.Published {
		return false
	}
	if fm.Search != nil && !*fm.Search {
		return false
	}
	return true
}

func (fm frontMatter) categories() []string {
	if len(fm.Categories) > 0 {
		return fm.Categories
	}
	if fm.Category != "" {
		return []string{fm.Category}
	}
	return nil
}

// stringList accepts either a YAML sequence or a space-separated string.
type stringList []string

func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = strings.Fields(node.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		out := items[:0]
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("line %d: expected a list or a string", node.Line)
	}
}

// dateLayouts are the date forms accepted in front matter.
var dateLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// frontDate is a front-matter date kept as a time.Time.
type frontDate struct {
	time.Time
}

func (d *frontDate) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", node.Line)
	}
	t, err := parseDate(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	d.Time = t
	return nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// splitFrontMatter separates a leading "---" delimited YAML header from the
// body. ok is false when the file has no complete header.
func splitFrontMatter(content string) (header, body string, ok bool) {
	content = strings.TrimPrefix(content, "\ufeff")
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", content, false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), true
		}
	}

	return "", content, false
}

// parseFrontMatter decodes a header into frontMatter.
func parseFrontMatter(header string) (frontMatter, error) {
	var fm frontMatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return frontMatter{}, fmt.Errorf("failed to parse front matter as YAML: %w", err)
	}
	return fm, nil
}
