package manifest

import (
	"github.com/hamba/avro/v2"
)

// Avro schemas for the manifest-file record at its versioned layouts. The
// field order matches the positional constants in manifest_file.go and the
// field-id props carry the stable IDs; the container codec around these
// schemas lives elsewhere.

func mustNewRecordSchema(name, namespace string, fields []*avro.Field) avro.Schema {
	s, err := avro.NewRecordSchema(name, namespace, fields)
	if err != nil {
		panic(err)
	}
	return s
}

func mustNewField(name string, typ avro.Schema, opts ...avro.SchemaOption) *avro.Field {
	f, err := avro.NewField(name, typ, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

func mustNewUnionSchema(types []avro.Schema) avro.Schema {
	s, err := avro.NewUnionSchema(types)
	if err != nil {
		panic(err)
	}
	return s
}

func optional(typ avro.Schema) avro.Schema {
	return mustNewUnionSchema([]avro.Schema{avro.NewNullSchema(), typ})
}

// FieldSummarySchema returns the schema of one partition field summary
func FieldSummarySchema() avro.Schema {
	return mustNewRecordSchema("r508", "", []*avro.Field{
		mustNewField(
			"contains_null",
			avro.NewPrimitiveSchema(avro.Boolean, nil),
			avro.WithDoc("True if any file has a null partition value"),
			avro.WithProps(map[string]any{"field-id": 509}),
		),
		mustNewField(
			"contains_nan",
			optional(avro.NewPrimitiveSchema(avro.Boolean, nil)),
			avro.WithDoc("True if any file has a nan partition value"),
			avro.WithProps(map[string]any{"field-id": 518}),
		),
		mustNewField(
			"lower_bound",
			optional(avro.NewPrimitiveSchema(avro.Bytes, nil)),
			avro.WithDoc("Partition lower bound for all files"),
			avro.WithProps(map[string]any{"field-id": 510}),
		),
		mustNewField(
			"upper_bound",
			optional(avro.NewPrimitiveSchema(avro.Bytes, nil)),
			avro.WithDoc("Partition upper bound for all files"),
			avro.WithProps(map[string]any{"field-id": 511}),
		),
	})
}

func manifestFileFields(withFirstRowID bool) []*avro.Field {
	fields := []*avro.Field{
		mustNewField(
			"manifest_path",
			avro.NewPrimitiveSchema(avro.String, nil),
			avro.WithDoc("Location URI with FS scheme"),
			avro.WithProps(map[string]any{"field-id": 500}),
		),
		mustNewField(
			"manifest_length",
			avro.NewPrimitiveSchema(avro.Long, nil),
			avro.WithDoc("Total file size in bytes"),
			avro.WithProps(map[string]any{"field-id": 501}),
		),
		mustNewField(
			"partition_spec_id",
			avro.NewPrimitiveSchema(avro.Int, nil),
			avro.WithDoc("Spec ID used to write"),
			avro.WithProps(map[string]any{"field-id": 502}),
		),
		mustNewField(
			"content",
			avro.NewPrimitiveSchema(avro.Int, nil),
			avro.WithDoc("Contents of the manifest: 0=data, 1=deletes"),
			avro.WithProps(map[string]any{"field-id": 517}),
		),
		mustNewField(
			"sequence_number",
			avro.NewPrimitiveSchema(avro.Long, nil),
			avro.WithDoc("Sequence number when the manifest was added"),
			avro.WithProps(map[string]any{"field-id": 515}),
		),
		mustNewField(
			"min_sequence_number",
			avro.NewPrimitiveSchema(avro.Long, nil),
			avro.WithDoc("Lowest sequence number in the manifest"),
			avro.WithProps(map[string]any{"field-id": 516}),
		),
		mustNewField(
			"added_snapshot_id",
			avro.NewPrimitiveSchema(avro.Long, nil),
			avro.WithDoc("Snapshot ID that added the manifest"),
			avro.WithProps(map[string]any{"field-id": 503}),
		),
		mustNewField(
			"added_files_count",
			avro.NewPrimitiveSchema(avro.Int, nil),
			avro.WithDoc("Added entry count"),
			avro.WithProps(map[string]any{"field-id": 504}),
		),
		mustNewField(
			"existing_files_count",
			avro.NewPrimitiveSchema(avro.Int, nil),
			avro.WithDoc("Existing entry count"),
			avro.WithProps(map[string]any{"field-id": 505}),
		),
		mustNewField(
			"deleted_files_count",
			avro.NewPrimitiveSchema(avro.Int, nil),
			avro.WithDoc("Deleted entry count"),
			avro.WithProps(map[string]any{"field-id": 506}),
		),
		mustNewField(
			"added_rows_count",
			avro.NewPrimitiveSchema(avro.Long, nil),
			avro.WithDoc("Added rows count"),
			avro.WithProps(map[string]any{"field-id": 512}),
		),
		mustNewField(
			"existing_rows_count",
			avro.NewPrimitiveSchema(avro.Long, nil),
			avro.WithDoc("Existing rows count"),
			avro.WithProps(map[string]any{"field-id": 513}),
		),
		mustNewField(
			"deleted_rows_count",
			avro.NewPrimitiveSchema(avro.Long, nil),
			avro.WithDoc("Deleted rows count"),
			avro.WithProps(map[string]any{"field-id": 514}),
		),
		mustNewField(
			"partitions",
			optional(avro.NewArraySchema(
				FieldSummarySchema(),
				avro.WithProps(map[string]any{"element-id": 508}),
			)),
			avro.WithDoc("Summary for each partition"),
			avro.WithProps(map[string]any{"field-id": 507}),
		),
		mustNewField(
			"key_metadata",
			optional(avro.NewPrimitiveSchema(avro.Bytes, nil)),
			avro.WithDoc("Encryption key metadata blob"),
			avro.WithProps(map[string]any{"field-id": 519}),
		),
	}

	if withFirstRowID {
		fields = append(fields, mustNewField(
			"first_row_id",
			optional(avro.NewPrimitiveSchema(avro.Long, nil)),
			avro.WithDoc("Starting row ID to assign to new rows"),
			avro.WithProps(map[string]any{"field-id": 520}),
		))
	}

	return fields
}

// ManifestFileV2Schema returns the v2 layout, which stops at key_metadata
func ManifestFileV2Schema() avro.Schema {
	return mustNewRecordSchema("manifest_file", "", manifestFileFields(false))
}

// ManifestFileV3Schema returns the v3 layout, which adds first_row_id
func ManifestFileV3Schema() avro.Schema {
	return mustNewRecordSchema("manifest_file", "", manifestFileFields(true))
}

// V2FieldIDs returns the field IDs of the v2 layout in position order
func V2FieldIDs() []int {
	return append([]int(nil), baseFieldIDs[:NumFields-1]...)
}

// V3FieldIDs returns the field IDs of the v3 layout in position order
func V3FieldIDs() []int {
	return BaseFieldIDs()
}
