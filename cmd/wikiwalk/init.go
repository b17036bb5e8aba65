package main

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nao1215/wikiwalk/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/wikiwalk.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = config.DefaultConfigFile

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new wikiwalk configuration file",
		Long: `Initialize creates a new .wikiwalk configuration file in the current directory.

The generated file lists every setting with its default value.

Examples:
  # Create .wikiwalk in current directory
  wikiwalk init

  # Create config file at a specific path
  wikiwalk init -o myconfig.yaml

  # Force overwrite existing file
  wikiwalk init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// templatePath is the location of the template inside configTemplate.
const templatePath = "templates/wikiwalk.yaml"

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := writeTemplate(outputPath, force); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to change defaults such as:")
	fmt.Fprintln(out, "  - the page backend (static, chrome, firefox)")
	fmt.Fprintln(out, "  - the target article and step limit")
	fmt.Fprintln(out, "  - request pacing and proxy")
	return nil
}

// writeTemplate writes the embedded template to path with mode 0600.
// Without force an existing file is left untouched.
func writeTemplate(path string, force bool) error {
	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
		}
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	_, err = f.Write(content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
