package cli

import (
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/gear6io/floe/metrics"
	"github.com/gear6io/floe/pkg/errors"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Inspect metrics collection policies",
	Long: `Resolve the per-column metrics policy a table's properties produce.

Examples:
  floe metrics explain --schema schema.json --prop write.metadata.metrics.default=counts
  floe metrics explain --schema schema.json --metadata table-metadata.json`,
}

var metricsExplainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Show the resolved metrics mode of every column",
	Long: `Build the metrics policy from a schema and table properties and print
the mode every column resolves to.

Properties come from either:
- a table metadata JSON file (--metadata), whose "properties" object is read
- repeated --prop key=value flags

When both are given, --prop values win over the metadata file.

Recognized property keys:
  write.metadata.metrics.default           default mode for all columns
  write.metadata.metrics.column.<path>     per-column override

Recognized modes: none, counts, full, truncate(N).

Examples:
  floe metrics explain --schema schema.json
  floe metrics explain --schema schema.json --prop write.metadata.metrics.default=none \
      --prop write.metadata.metrics.column.record.data=truncate(2)
  floe metrics explain --schema schema.json --metadata table-metadata.json`,
	RunE: runMetricsExplain,
}

type metricsExplainOptions struct {
	schemaFile   string
	metadataFile string
	props        []string
}

var metricsExplainOpts = &metricsExplainOptions{}

func init() {
	metricsExplainCmd.Flags().StringVar(&metricsExplainOpts.schemaFile, "schema", "", "JSON schema definition file (required)")
	metricsExplainCmd.Flags().StringVar(&metricsExplainOpts.metadataFile, "metadata", "", "table metadata JSON file to read properties from")
	metricsExplainCmd.Flags().StringArrayVar(&metricsExplainOpts.props, "prop", nil, "table property as key=value (repeatable)")
	_ = metricsExplainCmd.MarkFlagRequired("schema")

	metricsCmd.AddCommand(metricsExplainCmd)
	rootCmd.AddCommand(metricsCmd)
}

func runMetricsExplain(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())
	if logger != nil {
		logger.Info().
			Str("cmd", "metrics-explain").
			Str("schema", metricsExplainOpts.schemaFile).
			Str("metadata", metricsExplainOpts.metadataFile).
			Int("props", len(metricsExplainOpts.props)).
			Msg("Resolving metrics policy")
	}

	sch, err := loadSchemaFile(metricsExplainOpts.schemaFile)
	if err != nil {
		pterm.Error.Printfln("Failed to load schema: %v", err)
		return err
	}

	props := make(map[string]string)
	if metricsExplainOpts.metadataFile != "" {
		if err := mergeMetadataProperties(metricsExplainOpts.metadataFile, props); err != nil {
			pterm.Error.Printfln("Failed to read table metadata: %v", err)
			return err
		}
	}
	for _, kv := range metricsExplainOpts.props {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			err := errors.New(ErrPropertyFlagMalformed, "property flags take the form key=value", nil).
				AddContext("flag", kv)
			pterm.Error.Printfln("%v", err)
			return err
		}
		props[key] = value
	}

	cfg, err := metrics.NewMetricsConfig(sch, props)
	if err != nil {
		pterm.Error.Printfln("Invalid metrics configuration: %v", err)
		return err
	}

	if cmd.Flag("verbose").Value.String() == "true" {
		for key, value := range props {
			pterm.Info.Printfln("property %s = %s", key, value)
		}
	}

	overridden := cfg.Overrides()

	data := pterm.TableData{{"COLUMN", "FIELD ID", "TYPE", "MODE", "SOURCE"}}
	for _, leaf := range sch.Leaves() {
		source := "default"
		if _, ok := overridden[leaf.ID]; ok {
			source = "override"
		}
		data = append(data, []string{
			leaf.Path,
			strconv.Itoa(leaf.ID),
			leaf.Type.String(),
			cfg.ModeForField(leaf.ID).String(),
			source,
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	pterm.Info.Printfln("default mode: %s", cfg.DefaultMode())
	return nil
}

// mergeMetadataProperties reads the "properties" object of a table
// metadata JSON file into props
func mergeMetadataProperties(path string, props map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.New(ErrFileReadFailed, "could not read metadata file", err).
			AddContext("path", path)
	}
	if !gjson.ValidBytes(data) {
		return errors.New(ErrMetadataInvalid, "metadata file is not valid JSON", nil).
			AddContext("path", path)
	}

	properties := gjson.GetBytes(data, "properties")
	if !properties.Exists() {
		return nil
	}
	if !properties.IsObject() {
		return errors.New(ErrMetadataInvalid, `metadata "properties" is not an object`, nil).
			AddContext("path", path)
	}

	properties.ForEach(func(key, value gjson.Result) bool {
		props[key.String()] = value.String()
		return true
	})
	return nil
}
