package tui

import (
	"fmt"
	"strings"
)

type section struct {
	heading string
	items   []string
}

// StatisticsMarkdown turns a plain or verbose statistics report into markdown:
// "Key: value" lines become a table and the unvisited listings become lists.
func StatisticsMarkdown(title, statistics string) string {
	var rows []string
	var sections []*section

	for _, line := range strings.Split(statistics, "\n") {
		switch {
		case strings.HasPrefix(line, "  ") && len(sections) > 0:
			last := sections[len(sections)-1]
			last.items = append(last.items, strings.TrimSpace(line))
		case strings.HasSuffix(line, ":"):
			sections = append(sections, &section{heading: strings.TrimSuffix(line, ":")})
		case strings.Contains(line, ": "):
			key, value, _ := strings.Cut(line, ": ")
			rows = append(rows, fmt.Sprintf("| %s | %s |", key, value))
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", title)
	if len(rows) > 0 {
		sb.WriteString("\n| Metric | Value |\n|---|---|\n")
		for _, r := range rows {
			sb.WriteString(r + "\n")
		}
	}
	for _, s := range sections {
		fmt.Fprintf(&sb, "\n## %s\n\n", s.heading)
		for _, item := range s.items {
			fmt.Fprintf(&sb, "- `%s`\n", item)
		}
	}
	return sb.String()
}
