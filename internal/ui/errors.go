package ui

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/siteops/dailyup/internal/domain"
)

const (
	maxErrorLines  = 2
	minLineWidth   = 10
	truncationMark = "..."
)

// errorPrefix names the failed operation from the error class
func errorPrefix(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuth):
		return "Login failed: "
	case errors.Is(err, domain.ErrFetch):
		return "Project unavailable: "
	case errors.Is(err, domain.ErrParse):
		return "Cannot read file: "
	case errors.Is(err, domain.ErrUpload):
		return "Upload failed: "
	case errors.Is(err, domain.ErrIndex), errors.Is(err, domain.ErrValidation):
		return "Check: "
	default:
		return "Error: "
	}
}

// errorMessage drops the class text already carried by the prefix
func errorMessage(err error) string {
	message := err.Error()
	for _, class := range []error{domain.ErrAuth, domain.ErrFetch, domain.ErrParse, domain.ErrUpload, domain.ErrValidation} {
		if errors.Is(err, class) {
			message = strings.TrimPrefix(message, class.Error()+": ")
			break
		}
	}
	return message
}

// formatErrorForDisplay formats an error for the footer. It wraps at
// maxWidth, keeps at most maxErrorLines lines and marks truncation with "...".
func formatErrorForDisplay(err error, maxWidth int) string {
	if err == nil {
		return ""
	}

	prefix := errorPrefix(err)
	message := errorMessage(err)
	words := strings.Fields(message)
	if len(words) == 0 {
		return prefix + "unknown error"
	}

	firstLineWidth := max(maxWidth-utf8.RuneCountInString(prefix), minLineWidth)
	otherLineWidth := max(maxWidth, minLineWidth)

	var lines []string
	var current strings.Builder
	width := firstLineWidth
	truncated := false

	for i, word := range words {
		currentLen := utf8.RuneCountInString(current.String())
		wordLen := utf8.RuneCountInString(word)

		if currentLen > 0 && currentLen+1+wordLen > width {
			lines = append(lines, current.String())
			current.Reset()
			if len(lines) >= maxErrorLines {
				truncated = i < len(words)
				break
			}
			width = otherLineWidth
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 && len(lines) < maxErrorLines {
		lines = append(lines, current.String())
	}

	if truncated {
		last := []rune(lines[len(lines)-1])
		keep := otherLineWidth - utf8.RuneCountInString(truncationMark)
		if len(lines) == 1 {
			keep = firstLineWidth - utf8.RuneCountInString(truncationMark)
		}
		if keep > 0 && len(last) > keep {
			last = last[:keep]
		}
		lines[len(lines)-1] = string(last) + truncationMark
	}

	return prefix + strings.Join(lines, "\n")
}
