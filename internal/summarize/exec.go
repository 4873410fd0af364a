package summarize

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// maxPromptChars bounds how much transcript is packed into the prompt.
// Long meetings keep their tail: decisions and action items cluster late.
const maxPromptChars = 18000

// ExecSummarizer runs an external language model helper. The helper reads
// the full prompt on stdin and prints the summary on stdout.
type ExecSummarizer struct {
	Command    string
	Model      string // model path or name passed through to the helper
	PromptsDir string // optional template override directory
}

func (s *ExecSummarizer) Summarize(ctx context.Context, transcript, templateName string) (string, error) {
	template, err := LoadTemplate(templateName, s.PromptsDir)
	if err != nil {
		return "", err
	}

	prompt := BuildPrompt(template, transcript)

	var args []string
	if s.Model != "" {
		args = append(args, "--model", s.Model)
	}
	cmd := exec.CommandContext(ctx, s.Command, args...)
	cmd.Stdin = strings.NewReader(prompt)
	out, err := cmd.Output()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			detail := strings.TrimSpace(string(ee.Stderr))
			if detail == "" {
				detail = ee.String()
			}
			return "", fmt.Errorf("summarizer %s: %s", s.Command, detail)
		}
		return "", fmt.Errorf("summarizer %s: %w", s.Command, err)
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return "", fmt.Errorf("summarizer %s: empty output", s.Command)
	}
	return text, nil
}

// BuildPrompt assembles the helper prompt, clipping the transcript to its
// last maxPromptChars characters when it is too long.
func BuildPrompt(template, transcript string) string {
	if len(transcript) > maxPromptChars {
		transcript = transcript[len(transcript)-maxPromptChars:]
	}
	return template + "\n\nTranscript:\n" + transcript + "\n\nWrite the requested summary now.\n"
}
