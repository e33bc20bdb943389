package cli

import (
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gear6io/floe/manifest"
	"github.com/gear6io/floe/pkg/errors"
)

func TestParseManifestDescriptor(t *testing.T) {
	lower := base64.StdEncoding.EncodeToString([]byte{0x01, 0x00, 0x00, 0x00})
	upper := base64.StdEncoding.EncodeToString([]byte{0x64, 0x00, 0x00, 0x00})
	km := base64.StdEncoding.EncodeToString([]byte("key"))

	data := fmt.Sprintf(`{
		"manifest_path": "s3://warehouse/db/tbl/metadata/m0.avro",
		"manifest_length": 6019,
		"partition_spec_id": 2,
		"content": 1,
		"sequence_number": 34,
		"min_sequence_number": 30,
		"added_snapshot_id": 3055729675574597004,
		"added_files_count": 4,
		"existing_files_count": 1,
		"deleted_files_count": 0,
		"added_rows_count": 100,
		"existing_rows_count": 10,
		"deleted_rows_count": 0,
		"partitions": [
			{"contains_null": true, "contains_nan": false, "lower_bound": "%s", "upper_bound": "%s"},
			{"contains_null": false}
		],
		"key_metadata": "%s",
		"first_row_id": 7000
	}`, lower, upper, km)

	rec, err := parseManifestDescriptor([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "s3://warehouse/db/tbl/metadata/m0.avro", rec.Path())
	length, err := rec.Length()
	require.NoError(t, err)
	assert.Equal(t, int64(6019), length)
	assert.Equal(t, int32(2), rec.SpecID())
	assert.Equal(t, manifest.ManifestContentDeletes, rec.Content())
	assert.Equal(t, int64(34), rec.SequenceNumber())
	assert.Equal(t, int64(30), rec.MinSequenceNumber())
	require.NotNil(t, rec.SnapshotID())
	assert.Equal(t, int64(3055729675574597004), *rec.SnapshotID())
	require.NotNil(t, rec.AddedFilesCount())
	assert.Equal(t, int32(4), *rec.AddedFilesCount())
	require.NotNil(t, rec.AddedRowsCount())
	assert.Equal(t, int64(100), *rec.AddedRowsCount())
	assert.Equal(t, []byte("key"), rec.KeyMetadata())
	require.NotNil(t, rec.FirstRowID())
	assert.Equal(t, int64(7000), *rec.FirstRowID())

	parts := rec.Partitions()
	require.Len(t, parts, 2)
	assert.True(t, parts[0].ContainsNull)
	require.NotNil(t, parts[0].ContainsNaN)
	assert.False(t, *parts[0].ContainsNaN)
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, parts[0].LowerBound)
	assert.Equal(t, []byte{0x64, 0x00, 0x00, 0x00}, parts[0].UpperBound)
	assert.False(t, parts[1].ContainsNull)
	assert.Nil(t, parts[1].ContainsNaN)
	assert.Nil(t, parts[1].LowerBound)
}

func TestParseManifestDescriptorMinimal(t *testing.T) {
	rec, err := parseManifestDescriptor([]byte(`{"manifest_path": "/tmp/m0.avro"}`))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/m0.avro", rec.Path())
	assert.Equal(t, int32(0), rec.SpecID())
	assert.Equal(t, manifest.ManifestContentData, rec.Content())
	assert.Nil(t, rec.SnapshotID())
	assert.Nil(t, rec.FirstRowID())
	assert.Empty(t, rec.Partitions())
}

func TestParseManifestDescriptorInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"manifest_path": `},
		{"path missing", `{"manifest_length": 6019}`},
		{"bad key_metadata", `{"manifest_path": "/tmp/m0.avro", "key_metadata": "not-base64!"}`},
		{"bad lower_bound", `{"manifest_path": "/tmp/m0.avro", "partitions": [{"contains_null": false, "lower_bound": "???"}]}`},
		{"bad upper_bound", `{"manifest_path": "/tmp/m0.avro", "partitions": [{"contains_null": false, "upper_bound": "???"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseManifestDescriptor([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, ErrDescriptorInvalid), "unexpected error: %v", err)
		})
	}
}

func TestRenderManifestRecord(t *testing.T) {
	pterm.DisableOutput()
	defer pterm.EnableOutput()

	// No handle and no explicit length renders as unknown
	rec := manifest.NewBuilder("/tmp/m0.avro", 0).Build()
	require.NoError(t, renderManifestRecord(rec))

	full, err := parseManifestDescriptor([]byte(`{"manifest_path": "/tmp/m1.avro", "manifest_length": 64, "key_metadata": "a2V5"}`))
	require.NoError(t, err)
	require.NoError(t, renderManifestRecord(full))
}
