package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorBlue    = lipgloss.Color("#06B6D4") // Cyan
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Green

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning)
	styleError   = lipgloss.NewStyle().Foreground(colorError)
)

var statusColors = map[domain.ApplicationStatus]lipgloss.Color{
	domain.StatusDraft:     colorMuted,
	domain.StatusApplied:   colorBlue,
	domain.StatusScreening: colorBlue,
	domain.StatusInterview: colorPrimary,
	domain.StatusOffer:     colorSuccess,
	domain.StatusAccepted:  colorSuccess,
	domain.StatusRejected:  colorError,
	domain.StatusWithdrawn: colorWarning,
}

// renderStatus pads the status name before colouring so columns line up.
func renderStatus(s domain.ApplicationStatus) string {
	style := lipgloss.NewStyle().Bold(true)
	if c, ok := statusColors[s]; ok {
		style = style.Foreground(c)
	}
	return style.Render(fmt.Sprintf("%-9s", s))
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

func formatDate(epochMs int64) string {
	return time.UnixMilli(epochMs).Local().Format(dateLayout)
}

func formatDateTime(epochMs int64) string {
	return time.UnixMilli(epochMs).Local().Format(dateTimeLayout)
}

// parseDate accepts "2006-01-02" or "2006-01-02 15:04" in local time.
func parseDate(s string) (int64, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{dateTimeLayout, dateLayout} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("%w: date %q must look like 2024-03-01 or \"2024-03-01 14:30\"", domain.ErrInvalidInput, s)
}

func optionalDate(s string) (*int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	ms, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &ms, nil
}
