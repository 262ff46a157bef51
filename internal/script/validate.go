package script

import (
	"fmt"
	"regexp"
	"strings"
)

// Reason names the validator's rejection category.
type Reason string

const (
	ReasonMissingShebang   Reason = "missingShebang"
	ReasonDangerousPattern Reason = "dangerousPattern"
)

// RejectedError reports why a payload was refused before execution.
type RejectedError struct {
	Reason Reason
	Detail string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("script rejected (%s): %s", e.Reason, e.Detail)
}

// denylistEntry pairs a description with the pattern that detects it.
// Membership is an independent check per entry; any single match rejects.
type denylistEntry struct {
	description string
	pattern     *regexp.Regexp
}

var denylist = []denylistEntry{
	{
		description: "unconditional recursive deletion of the filesystem root",
		pattern:     regexp.MustCompile(`rm\s+(-\w+\s+)*-[a-zA-Z]*[rf][a-zA-Z]*\s+/(\s|['"]|$)`),
	},
	{
		description: "piping remote content directly into a shell",
		pattern:     regexp.MustCompile(`(curl|wget)[^\n|]*\|\s*(sudo\s+)?(ba|z|da)?sh(\s|$)`),
	},
	{
		description: "fork bomb",
		pattern:     regexp.MustCompile(`:\s*\(\s*\)\s*\{\s*:\s*\|\s*:\s*&\s*\}\s*;\s*:`),
	},
	{
		description: "building a filesystem over a raw device",
		pattern:     regexp.MustCompile(`mkfs(\.\w+)?\s+(\S+\s+)*/dev/`),
	},
	{
		description: "writing raw bytes over a block device",
		pattern:     regexp.MustCompile(`dd\s[^\n]*of=/dev/(sd|vd|nvme|xvd|hd)`),
	},
}

// Validate statically vets payload text for minimum structural sanity and
// the dangerous-pattern denylist. It returns nil when execution may
// proceed and a *RejectedError naming the category otherwise.
func Validate(content []byte) error {
	text := string(content)
	if strings.TrimSpace(text) == "" {
		return &RejectedError{Reason: ReasonMissingShebang, Detail: "script is empty"}
	}

	firstLine, _, _ := strings.Cut(text, "\n")
	firstLine = strings.TrimRight(firstLine, "\r")
	if !strings.HasPrefix(firstLine, "#!") || strings.TrimSpace(firstLine[2:]) == "" {
		return &RejectedError{Reason: ReasonMissingShebang, Detail: "first line is not an interpreter directive"}
	}

	for _, entry := range denylist {
		if entry.pattern.MatchString(text) {
			return &RejectedError{Reason: ReasonDangerousPattern, Detail: entry.description}
		}
	}

	return nil
}
