// Package styles holds the lipgloss styles and markdown rendering used by
// human-readable command output
package styles

import (
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/thenoetrevino/tramo/internal/models"
)

// Palette
const (
	colorAccent  = "#7D56F4"
	colorTitle   = "#FAFAFA"
	colorSubtle  = "#6C6C6C"
	colorNormal  = "#DDDDDD"
	colorSuccess = "#04B575"
	colorWarning = "#F2C94C"
	colorError   = "#FF5F87"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 80

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Status:"
	ValueStyle    lipgloss.Style // For field values
	SectionStyle  lipgloss.Style // For section headers like "Description"

	// Status styles
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	MutedStyle   lipgloss.Style
)

func init() {
	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorAccent)).
		Padding(1, 2).
		Width(CardWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorTitle))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorSubtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorAccent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorNormal))

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorAccent)).
		Bold(true).
		MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorSuccess))

	WarningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorWarning))

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorError))

	MutedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorSubtle)).
		Italic(true)
}

// Status renders a module, project or progress status in its color
func Status(status string) string {
	switch status {
	case string(models.ModulePublished), string(models.ProgressCompleted),
		string(models.ProgressSubmitted), string(models.ProgressGraded), string(models.ProgressVerified):
		return SuccessStyle.Render(status)
	case string(models.ProgressReleased), string(models.ProgressInProgress):
		return WarningStyle.Render(status)
	case string(models.ModuleDeleted):
		return ErrorStyle.Render(status)
	default:
		return MutedStyle.Render(status)
	}
}

// Cache glamour renderers by width to avoid expensive re-creation
var rendererCache sync.Map // map[int]*glamour.TermRenderer

func getRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	rendererCache.Store(width, renderer)
	return renderer, nil
}

// Markdown renders a description as terminal markdown. Rendering failures
// fall back to the raw text.
func Markdown(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return MutedStyle.Render("No description")
	}
	renderer, err := getRenderer(width)
	if err != nil {
		return text
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(rendered)
}
