// Package summarize produces meeting summaries, either through an
// external language model helper or a local extractive fallback.
package summarize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownTemplate reports a template name outside the known set.
var ErrUnknownTemplate = errors.New("unknown summary template")

var promptFiles = map[string]string{
	"general":     "summary_general.md",
	"sales":       "summary_sales.md",
	"engineering": "summary_engineering.md",
}

var builtinPrompts = map[string]string{
	"general":     "Summarize this meeting with objective, key points, decisions, action items, and open questions.",
	"sales":       "Summarize this sales call with context, pain points, objections, commitments, and next steps.",
	"engineering": "Summarize this engineering meeting with technical decisions, blockers, risks, and owner TODOs.",
}

// Templates returns the known template names, sorted.
func Templates() []string {
	names := make([]string, 0, len(promptFiles))
	for name := range promptFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadTemplate resolves a template name to its prompt text. A file named
// after the template in promptsDir overrides the builtin prompt, so users
// can tune prompts without rebuilding. promptsDir may be empty.
func LoadTemplate(name, promptsDir string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	file, ok := promptFiles[key]
	if !ok {
		return "", fmt.Errorf("%w: %q (known: %s)", ErrUnknownTemplate, name, strings.Join(Templates(), ", "))
	}
	if promptsDir != "" {
		if data, err := os.ReadFile(filepath.Join(promptsDir, file)); err == nil {
			return string(data), nil
		}
	}
	return builtinPrompts[key], nil
}
