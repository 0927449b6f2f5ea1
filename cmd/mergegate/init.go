package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/mergegate/mergegate/domain"
	"github.com/mergegate/mergegate/internal/config"
	"github.com/mergegate/mergegate/internal/constants"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a mergegate configuration file",
		Long: `Generate a documented mergegate configuration file with the default
layer hierarchy and coverage skip patterns.

Examples:
  # Create mergegate.config.json in the current directory
  mergegate init

  # YAML output
  mergegate init --config mergegate.yaml

  # Overwrite an existing file
  mergegate init --force

  # Interactive setup wizard
  mergegate init --interactive`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	interactive, _ := cmd.Flags().GetBool("interactive")

	mode := domain.ModeWarning
	if interactive {
		var err error
		mode, configPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	content, err := config.GenerateTemplateForMode(configPath, string(mode))
	if err != nil {
		return fmt.Errorf("failed to generate config: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Printf("Created %s\n", displayPath)
	if mode == domain.ModeError {
		fmt.Println("\nError mode is enabled: critical/high findings will block merges.")
	}
	fmt.Println("\nRun 'mergegate validate <changeset>' to check a change.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) (domain.GateMode, string, error) {
	fmt.Println()
	fmt.Println("mergegate Configuration Setup")
	fmt.Println("=============================")
	fmt.Println()

	modes := []struct {
		Label       string
		Description string
		Value       domain.GateMode
	}{
		{"Warning (recommended to start)", "Findings are reported but never block merges", domain.ModeWarning},
		{"Error", "Critical and high severity findings block merges", domain.ModeError},
	}

	modeTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	modePrompt := promptui.Select{
		Label:     "How should the gate behave?",
		Items:     modes,
		Templates: modeTemplates,
	}

	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return "", "", fmt.Errorf("mode selection cancelled: %w", err)
	}

	fmt.Println()

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	return modes[modeIdx].Value, outputPath, nil
}
