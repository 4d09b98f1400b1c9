package output

import "github.com/charmbracelet/lipgloss"

// Console palette
var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorSuccess = lipgloss.Color("#04B575")
	ColorDanger  = lipgloss.Color("#FF4672")
	ColorMuted   = lipgloss.Color("#626262")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorDanger)

	BindingStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)
)

// metricLine renders "label value" with the label padded to width
func metricLine(label, value string, width int) string {
	return MetricLabelStyle.Render(padRight(label, width)) + " " + MetricValueStyle.Render(value)
}

func padRight(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}
