package netlist

import (
	"regexp"
	"strings"
)

// Section names the parser consumes. Other sections are split out and ignored.
const (
	SectionScopes          = "SCOPES"
	SectionElaboratedNodes = "ELABORATED NODES"
)

// Sections maps a section name to its body lines.
// A present section with no body maps to a nil slice; use the two-value
// lookup to tell "present but empty" from "absent".
type Sections map[string][]string

// sectionHeaderRe matches "NAME:" and "NAME WORDS: trailing" at line start.
var sectionHeaderRe = regexp.MustCompile(`^([A-Z][A-Z ]*):(.*)$`)

// SplitSections splits a raw dump into named sections.
//
// A header line closes the previous section and opens a new one; text after
// the colon on the header line becomes the first body line. Lines before the
// first header are discarded. Carriage returns are stripped.
func SplitSections(raw string) Sections {
	sections := make(Sections)
	var (
		title string
		open  bool
		body  []string
	)
	closeSection := func() {
		if open {
			sections[title] = body
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if m := sectionHeaderRe.FindStringSubmatch(line); m != nil {
			closeSection()
			title, open, body = strings.TrimSpace(m[1]), true, nil
			if data := strings.TrimSpace(m[2]); data != "" {
				body = append(body, data)
			}
			continue
		}
		if open {
			body = append(body, line)
		}
	}
	closeSection()
	return sections
}

// GroupLines splits lines into blocks. Each block starts at a line with no
// leading spaces and runs up to the next such line. Empty lines (typically
// the trailing newline of the dump) are skipped rather than opening a block.
func GroupLines(lines []string) [][]string {
	var (
		groups [][]string
		group  []string
	)
	for _, line := range lines {
		if line == "" {
			continue
		}
		if leadingSpaces(line) == 0 && len(group) > 0 {
			groups = append(groups, group)
			group = nil
		}
		group = append(group, line)
	}
	if len(group) > 0 {
		groups = append(groups, group)
	}
	return groups
}

// leadingSpaces counts space characters (not tabs) at the start of line.
func leadingSpaces(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}
