package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/propfirm/journal"
	"github.com/rustyeddy/propfirm/pkg/id"
	"github.com/rustyeddy/propfirm/risk"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage rule templates",
	Long: `Import and inspect rule templates.

Subcommands:
  import - Store a JSON or YAML rule configuration
  show   - Print a template normalized to the stage-list shape

Examples:
  propfirm template import rules.yaml --name "50K Challenge"
  propfirm template show tmpl_01HV3K`,
}

var templateImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Store a rule configuration as a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateImport,
}

var templateShowCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Print a template in the stage-list shape",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateShow,
}

var (
	templateID    string
	templateOwner string
	templateName  string
)

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateImportCmd)
	templateCmd.AddCommand(templateShowCmd)

	templateImportCmd.Flags().StringVar(&templateID, "id", "", "template id (generated when empty)")
	templateImportCmd.Flags().StringVar(&templateOwner, "owner", "", "owning user id")
	templateImportCmd.Flags().StringVar(&templateName, "name", "", "display name (defaults to the file name)")
}

// readConfigFile returns the file as JSON. YAML files are converted.
func readConfigFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		return json.Marshal(v)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%s is not valid JSON", path)
	}
	return data, nil
}

func runTemplateImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := readConfigFile(path)
	if err != nil {
		return err
	}

	norm, diag := risk.ParseTemplate(data)
	if diag != risk.DiagnosticNone {
		logger.Warn().Str("file", path).Str("diagnostic", string(diag)).Msg("template is not in stage-list form")
	}

	ctx := cmd.Context()
	j, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer j.Close()

	t := journal.RuleTemplate{
		ID:      templateID,
		OwnerID: templateOwner,
		Name:    templateName,
		Version: 1,
		Config:  data,
	}
	if t.ID == "" {
		t.ID = id.Prefixed("tmpl")
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	prev, err := j.GetTemplate(ctx, t.ID)
	switch {
	case err == nil:
		t.Version = prev.Version + 1
	case !errors.Is(err, journal.ErrNotFound):
		return fmt.Errorf("get template: %w", err)
	}

	if err := j.UpsertTemplate(ctx, t); err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	logger.Info().Str("template_id", t.ID).Int("version", t.Version).Int("stages", len(norm.Stages)).Msg("template imported")

	fmt.Fprintln(cmd.OutOrStdout(), t.ID)
	return nil
}

func runTemplateShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	j, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer j.Close()

	t, err := j.GetTemplate(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get template: %w", err)
	}

	norm, diag := risk.ParseTemplate(t.Config)
	if diag != risk.DiagnosticNone {
		logger.Warn().Str("template_id", t.ID).Str("diagnostic", string(diag)).Msg("template is not in stage-list form")
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(norm)
}
