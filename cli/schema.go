package cli

import (
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/gear6io/floe/pkg/errors"
	"github.com/gear6io/floe/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Work with table schemas",
	Long: `Parse and inspect table schema definitions.

Examples:
  floe schema parse "struct<id:int64,data:string>"
  floe schema parse --file schema.json`,
}

var schemaParseCmd = &cobra.Command{
	Use:   "parse [type]",
	Short: "Parse a schema definition and print its resolved layout",
	Long: `Parse a schema definition and print every column with its assigned
field ID, dotted path, type and nullability.

The definition is either an inline type string using the engine's type
grammar, or a JSON file of the form:

  {"fields": [
    {"name": "id", "type": "int64"},
    {"name": "record", "type": "struct<id:int64,data:string>", "required": true}
  ]}

Field IDs are assigned fresh in pre-order, the way a table-creation path
numbers a brand new schema.

Examples:
  floe schema parse "struct<id:int64,record:struct<id:int64,data:string>>"
  floe schema parse "decimal(10,2)"
  floe schema parse --file schema.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchemaParse,
}

type schemaParseOptions struct {
	file string
}

var schemaParseOpts = &schemaParseOptions{}

func init() {
	schemaParseCmd.Flags().StringVar(&schemaParseOpts.file, "file", "", "JSON schema definition file")

	schemaCmd.AddCommand(schemaParseCmd)
	rootCmd.AddCommand(schemaCmd)
}

func runSchemaParse(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())

	var sch *schema.Schema
	switch {
	case schemaParseOpts.file != "":
		if logger != nil {
			logger.Info().Str("cmd", "schema-parse").Str("file", schemaParseOpts.file).Msg("Parsing schema file")
		}
		loaded, err := loadSchemaFile(schemaParseOpts.file)
		if err != nil {
			pterm.Error.Printfln("Failed to load schema: %v", err)
			return err
		}
		sch = loaded

	case len(args) == 1:
		typ, err := schema.ParseType(args[0])
		if err != nil {
			pterm.Error.Printfln("Failed to parse type: %v", err)
			return err
		}
		st, ok := typ.(*schema.StructType)
		if !ok {
			// A bare non-struct type has no columns to lay out
			pterm.Info.Printfln("parsed type: %s", typ.String())
			return nil
		}
		fields := make([]schema.Field, len(st.Fields))
		for i, f := range st.Fields {
			fields[i] = schema.Field(f)
		}
		built, err := schema.NewSchema(schema.AssignFreshIDs(fields)...)
		if err != nil {
			pterm.Error.Printfln("Invalid schema: %v", err)
			return err
		}
		sch = built

	default:
		err := errors.New(ErrMissingInput, "provide an inline type string or --file", nil)
		pterm.Error.Printfln("%v", err)
		return err
	}

	if err := renderSchema(sch); err != nil {
		return err
	}

	if cmd.Flag("verbose").Value.String() == "true" {
		pterm.Info.Printfln("resolved schema:\n%s", sch.String())
	}
	return nil
}

func renderSchema(sch *schema.Schema) error {
	data := pterm.TableData{{"COLUMN", "FIELD ID", "TYPE", "REQUIRED"}}
	for _, leaf := range sch.Leaves() {
		required := "false"
		if leaf.Required {
			required = "true"
		}
		data = append(data, []string{leaf.Path, strconv.Itoa(leaf.ID), leaf.Type.String(), required})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// loadSchemaFile reads a {"fields": [...]} JSON definition and assigns
// fresh field IDs
func loadSchemaFile(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(ErrFileReadFailed, "could not read schema file", err).
			AddContext("path", path)
	}
	return parseSchemaJSON(data)
}

func parseSchemaJSON(data []byte) (*schema.Schema, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New(ErrSchemaDefinitionBad, "schema definition is not valid JSON", nil)
	}

	fieldsJSON := gjson.GetBytes(data, "fields")
	if !fieldsJSON.IsArray() {
		return nil, errors.New(ErrSchemaDefinitionBad, `schema definition needs a "fields" array`, nil)
	}

	var fields []schema.Field
	var fieldErr error
	fieldsJSON.ForEach(func(_, item gjson.Result) bool {
		name := item.Get("name").String()
		typeStr := item.Get("type").String()

		typ, err := schema.ParseType(typeStr)
		if err != nil {
			fieldErr = errors.New(ErrSchemaDefinitionBad, "schema field has an invalid type", err).
				AddContext("field", name)
			return false
		}

		fields = append(fields, schema.Field{
			Name:     name,
			Type:     typ,
			Required: item.Get("required").Bool(),
		})
		return true
	})
	if fieldErr != nil {
		return nil, fieldErr
	}
	if len(fields) == 0 {
		return nil, errors.New(ErrSchemaDefinitionBad, "schema definition has no fields", nil)
	}

	return schema.NewSchema(schema.AssignFreshIDs(fields)...)
}
