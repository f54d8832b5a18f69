package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/siteops/dailyup/internal/domain"
)

func TestFormatErrorForDisplay(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "unclassified error",
			err:      errors.New("boom"),
			expected: "Error: boom",
		},
		{
			name:     "auth error drops class text",
			err:      fmt.Errorf("%w: %s", domain.ErrAuth, "用户名或密码错误"),
			expected: "Login failed: 用户名或密码错误",
		},
		{
			name:     "no reports in document",
			err:      domain.ErrNoReports,
			expected: "Cannot read file: no reports found in document",
		},
		{
			name:     "empty selection",
			err:      domain.ErrEmptySelection,
			expected: "Check: no reports selected",
		},
		{
			name:     "index error keeps its text",
			err:      fmt.Errorf("%w: 9", domain.ErrIndex),
			expected: "Check: row index out of range: 9",
		},
		{
			name:     "project lookup",
			err:      fmt.Errorf("%w: HTTP 502", domain.ErrFetch),
			expected: "Project unavailable: HTTP 502",
		},
		{
			name:     "upload",
			err:      fmt.Errorf("%w: 项目不存在", domain.ErrUpload),
			expected: "Upload failed: 项目不存在",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatErrorForDisplay(tt.err, 80))
		})
	}
}

func TestFormatErrorForDisplay_WrapsAndTruncates(t *testing.T) {
	err := errors.New(strings.Repeat("connection refused while dialing ", 10))

	formatted := formatErrorForDisplay(err, 30)

	lines := strings.Split(formatted, "\n")
	assert.Len(t, lines, maxErrorLines)
	assert.True(t, strings.HasPrefix(lines[0], "Error: "))
	assert.True(t, strings.HasSuffix(lines[1], truncationMark))
	for _, line := range lines {
		assert.LessOrEqual(t, utf8.RuneCountInString(line), 30)
	}
}

func TestFormatErrorForDisplay_ShortMessageIsNotTruncated(t *testing.T) {
	formatted := formatErrorForDisplay(errors.New("one two three"), 30)

	assert.Equal(t, "Error: one two three", formatted)
	assert.NotContains(t, formatted, truncationMark)
}
