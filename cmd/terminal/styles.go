package main

import "github.com/charmbracelet/lipgloss"

type styles struct {
	app      lipgloss.Style
	header   lipgloss.Style
	viewport lipgloss.Style
	footer   lipgloss.Style
	inactive lipgloss.Style
	error    lipgloss.Style
	success  lipgloss.Style
	prompt   lipgloss.Style
	command  lipgloss.Style
	ascii    lipgloss.Style
}

type themeName string

const (
	themeCyan      themeName = "cyan"
	themeMatrix    themeName = "matrix"
	themeAmber     themeName = "amber"
	themeCyberpunk themeName = "cyberpunk"
	themeIce       themeName = "ice"
	themeDracula   themeName = "dracula"
	themeFire      themeName = "fire"
)

type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	error     lipgloss.Color
	inactive  lipgloss.Color
}

var palettes = map[themeName]palette{
	themeCyan:      {primary: "51", secondary: "33", success: "46", warning: "226", error: "196", inactive: "240"},
	themeMatrix:    {primary: "82", secondary: "46", success: "82", warning: "190", error: "196", inactive: "240"},
	themeAmber:     {primary: "220", secondary: "214", success: "220", warning: "208", error: "196", inactive: "240"},
	themeCyberpunk: {primary: "201", secondary: "141", success: "51", warning: "213", error: "196", inactive: "240"},
	themeIce:       {primary: "159", secondary: "39", success: "51", warning: "159", error: "196", inactive: "240"},
	themeDracula:   {primary: "141", secondary: "117", success: "84", warning: "212", error: "203", inactive: "240"},
	themeFire:      {primary: "9", secondary: "196", success: "226", warning: "208", error: "196", inactive: "240"},
}

func getTheme(t themeName) styles {
	p, ok := palettes[t]
	if !ok {
		p = palettes[themeCyan]
	}
	return styles{
		app: lipgloss.NewStyle().Margin(0, 1),
		header: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.primary).
			Padding(0, 2).
			MarginBottom(1),
		viewport: lipgloss.NewStyle().PaddingLeft(1),
		footer: lipgloss.NewStyle().
			MarginTop(1).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.primary).
			PaddingTop(1),
		inactive: lipgloss.NewStyle().Foreground(p.inactive),
		error:    lipgloss.NewStyle().Foreground(p.error).Bold(true),
		success:  lipgloss.NewStyle().Foreground(p.success).Bold(true),
		prompt:   lipgloss.NewStyle().Foreground(p.warning).Bold(true),
		command:  lipgloss.NewStyle().Foreground(p.secondary).Italic(true),
		ascii:    lipgloss.NewStyle().Foreground(p.primary).Bold(true),
	}
}

func listThemes() []themeName {
	return []themeName{themeCyan, themeMatrix, themeAmber, themeCyberpunk, themeIce, themeDracula, themeFire}
}
