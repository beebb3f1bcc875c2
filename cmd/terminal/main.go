package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sevigo/grepiku/internal/config"
)

func main() {
	themeFlag := flag.String("theme", "", "UI theme (cyan, matrix, amber, cyberpunk, ice, dracula, fire)")
	listThemesFlag := flag.Bool("list-themes", false, "List all available themes and exit")
	flag.Parse()

	if *listThemesFlag {
		fmt.Println("Available themes:")
		for _, t := range listThemes() {
			fmt.Printf("  - %s\n", t)
		}
		os.Exit(0)
	}

	env, err := config.Load(&config.Overrides{EnvPrefix: "GREPIKU"})
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	selected := *themeFlag
	if selected == "" {
		selected = os.Getenv("GREPIKU_THEME")
	}
	if selected == "" {
		selected = env.Server.Theme
	}
	if selected == "" {
		selected = string(themeCyan)
	}

	theme := themeName(selected)
	valid := false
	for _, t := range listThemes() {
		if t == theme {
			valid = true
			break
		}
	}
	if !valid {
		fmt.Printf("invalid theme %q; use --list-themes to see available options\n", theme)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(theme, env), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error running terminal: %v\n", err)
		os.Exit(1)
	}
}
