package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/theme"
)

var themesOpts struct {
	format string
}

// themeListing is the machine-readable output of the themes command.
type themeListing struct {
	Stylesheets []theme.Info `json:"stylesheets" yaml:"stylesheets"`
	Tags        []string     `json:"tags" yaml:"tags"`
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List stylesheets and theme tags",
	Long: `List the stylesheets toastuid can load and the theme tags a notification
can use.

Stylesheets are bundled or read from ~/.config/toastui/themes/*.css; a user
file with a bundled name replaces it. Theme tags select the bg-<tag> and
btn-<tag> classes on the desktop and a color palette in the terminal.`,
	Args: cobra.NoArgs,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)

	themesCmd.Flags().StringVarP(&themesOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml)")
}

func runThemes(cmd *cobra.Command, args []string) error {
	infos, err := theme.List(config.StylesheetDir())
	if err != nil {
		// Bundled stylesheets are still listed
		logger.Warn("failed to read stylesheet directory", "error", err)
	}
	listing := themeListing{Stylesheets: infos, Tags: theme.Tags()}

	switch themesOpts.format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(listing)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(listing)
	case "plain":
	default:
		return fmt.Errorf("unknown format %q", themesOpts.format)
	}

	current := getConfig().Theme.Stylesheet
	fmt.Println("Stylesheets:")
	for _, info := range infos {
		marker := " "
		if info.Name == current {
			marker = "*"
		}
		source := "bundled"
		if !info.Embedded {
			source = info.Path
		}
		fmt.Printf(" %s %-16s %s\n", marker, info.Name, source)
	}

	fmt.Println("\nTheme tags:")
	for _, tag := range listing.Tags {
		palette, _ := theme.PaletteFor(tag)
		fmt.Println(palette.PanelStyle().Render(tag))
	}
	return nil
}
