package manifest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gear6io/floe/fileio"
	"github.com/gear6io/floe/pkg/errors"
)

// ManifestContent distinguishes what kind of files a manifest tracks.
// The enum persists as its integer ordinal.
type ManifestContent int32

const (
	ManifestContentData    ManifestContent = 0
	ManifestContentDeletes ManifestContent = 1
)

func (c ManifestContent) String() string {
	switch c {
	case ManifestContentData:
		return "data"
	case ManifestContentDeletes:
		return "deletes"
	default:
		return fmt.Sprintf("unknown(%d)", int32(c))
	}
}

// Positions of the manifest-file record fields in the current layout.
// The order is fixed by the wire format and must never be reshuffled.
const (
	posPath = iota
	posLength
	posSpecID
	posContent
	posSequenceNumber
	posMinSequenceNumber
	posSnapshotID
	posAddedFilesCount
	posExistingFilesCount
	posDeletedFilesCount
	posAddedRowsCount
	posExistingRowsCount
	posDeletedRowsCount
	posPartitions
	posKeyMetadata
	posFirstRowID
)

// NumFields is the width of the current manifest-file layout
const NumFields = posFirstRowID + 1

// baseFieldIDs maps each position of the current layout to its stable
// field ID. Older layouts are prefixes of this list; projection by ID is
// what keeps both directions readable.
var baseFieldIDs = []int{
	500, // manifest_path
	501, // manifest_length
	502, // partition_spec_id
	517, // content
	515, // sequence_number
	516, // min_sequence_number
	503, // added_snapshot_id
	504, // added_files_count
	505, // existing_files_count
	506, // deleted_files_count
	512, // added_rows_count
	513, // existing_rows_count
	514, // deleted_rows_count
	507, // partitions
	519, // key_metadata
	520, // first_row_id
}

// BaseFieldIDs returns the field IDs of the current layout in position order
func BaseFieldIDs() []int {
	return append([]int(nil), baseFieldIDs...)
}

// ManifestFileRecord describes one manifest: where it lives, what it
// contains and the aggregated file/row statistics commit planning needs.
// Identity is the manifest path alone. Records are immutable once handed
// out; Copy and CopyBuilder are the only mutation paths.
type ManifestFileRecord struct {
	proj *ProjectedStruct
	file fileio.File

	lengthMu sync.Mutex
}

// NewManifestFileRecord starts a record for a freshly written manifest.
// The length stays unresolved until first asked for, the sequence numbers
// stay zero until the commit assigns them.
func NewManifestFileRecord(file fileio.File, specID int32) *ManifestFileRecord {
	r := &ManifestFileRecord{
		proj: NewProjectedStruct(baseFieldIDs, baseFieldIDs),
		file: file,
	}
	r.proj.Set(posPath, file.Location())
	r.proj.Set(posSpecID, specID)
	r.proj.Set(posContent, int32(ManifestContentData))
	r.proj.Set(posSequenceNumber, int64(0))
	r.proj.Set(posMinSequenceNumber, int64(0))
	return r
}

// FromPositional reconstructs a record from values persisted at the given
// field-ID layout. Values the current layout does not know are dropped;
// fields the persisted layout lacked read as absent.
func FromPositional(actualIDs []int, values []interface{}) (*ManifestFileRecord, error) {
	r := &ManifestFileRecord{
		proj: NewProjectedStruct(baseFieldIDs, actualIDs),
	}
	if err := r.proj.LoadActual(values); err != nil {
		return nil, err
	}

	v, err := r.proj.Get(posPath)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errors.New(ErrPathMissing, "manifest path is not set in positional values", nil)
	}
	// Serialization-stable: whatever the codec handed us, the path is kept
	// as its string form
	r.proj.Set(posPath, fmt.Sprint(v))

	return r, nil
}

// Path returns the manifest location. It is the record's identity.
func (r *ManifestFileRecord) Path() string {
	v, _ := r.proj.Get(posPath)
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Length returns the manifest byte length, resolving it through the file
// handle on first use. When neither a stored length nor a cooperating
// handle exists the failure carries ErrLengthUnavailable; callers that can
// live without the value treat that as "unknown".
func (r *ManifestFileRecord) Length() (int64, error) {
	r.lengthMu.Lock()
	defer r.lengthMu.Unlock()

	if v, _ := r.proj.Get(posLength); v != nil {
		return asInt64(v), nil
	}

	if r.file == nil {
		return 0, errors.New(ErrLengthUnavailable, "manifest length is unknown and no file handle is attached", nil).
			AddContext("path", r.Path())
	}

	n, err := r.file.Length()
	if err != nil {
		return 0, errors.New(ErrLengthUnavailable, "file handle could not resolve manifest length", err).
			AddContext("path", r.Path())
	}

	r.proj.Set(posLength, n)
	return n, nil
}

// HasLength reports whether the length is already known without touching
// the file handle
func (r *ManifestFileRecord) HasLength() bool {
	v, _ := r.proj.Get(posLength)
	return v != nil
}

// SpecID returns the partition spec the manifest was written under
func (r *ManifestFileRecord) SpecID() int32 {
	v, _ := r.proj.Get(posSpecID)
	return asInt32(v)
}

// Content returns what kind of files the manifest tracks. Records
// persisted before the field existed read as data manifests.
func (r *ManifestFileRecord) Content() ManifestContent {
	v, _ := r.proj.Get(posContent)
	if v == nil {
		return ManifestContentData
	}
	return ManifestContent(asInt32(v))
}

// SequenceNumber returns the commit sequence number, zero until assigned
func (r *ManifestFileRecord) SequenceNumber() int64 {
	v, _ := r.proj.Get(posSequenceNumber)
	return asInt64(v)
}

// MinSequenceNumber returns the lowest data sequence number in the
// manifest, zero until assigned
func (r *ManifestFileRecord) MinSequenceNumber() int64 {
	v, _ := r.proj.Get(posMinSequenceNumber)
	return asInt64(v)
}

// SnapshotID returns the snapshot that added the manifest, nil when the
// manifest has not been attached to a commit
func (r *ManifestFileRecord) SnapshotID() *int64 {
	v, _ := r.proj.Get(posSnapshotID)
	return asInt64Ptr(v)
}

func (r *ManifestFileRecord) AddedFilesCount() *int32 {
	v, _ := r.proj.Get(posAddedFilesCount)
	return asInt32Ptr(v)
}

func (r *ManifestFileRecord) ExistingFilesCount() *int32 {
	v, _ := r.proj.Get(posExistingFilesCount)
	return asInt32Ptr(v)
}

func (r *ManifestFileRecord) DeletedFilesCount() *int32 {
	v, _ := r.proj.Get(posDeletedFilesCount)
	return asInt32Ptr(v)
}

func (r *ManifestFileRecord) AddedRowsCount() *int64 {
	v, _ := r.proj.Get(posAddedRowsCount)
	return asInt64Ptr(v)
}

func (r *ManifestFileRecord) ExistingRowsCount() *int64 {
	v, _ := r.proj.Get(posExistingRowsCount)
	return asInt64Ptr(v)
}

func (r *ManifestFileRecord) DeletedRowsCount() *int64 {
	v, _ := r.proj.Get(posDeletedRowsCount)
	return asInt64Ptr(v)
}

// Partitions returns the per-partition-field summaries, nil when the
// writer did not compute them
func (r *ManifestFileRecord) Partitions() []*PartitionFieldSummary {
	v, _ := r.proj.Get(posPartitions)
	if v == nil {
		return nil
	}
	return v.([]*PartitionFieldSummary)
}

// KeyMetadata returns the opaque encryption key material, nil when the
// manifest is not encrypted
func (r *ManifestFileRecord) KeyMetadata() []byte {
	v, _ := r.proj.Get(posKeyMetadata)
	if v == nil {
		return nil
	}
	return v.([]byte)
}

// FirstRowID returns the starting row id assigned to the manifest, nil on
// layouts that predate row lineage
func (r *ManifestFileRecord) FirstRowID() *int64 {
	v, _ := r.proj.Get(posFirstRowID)
	return asInt64Ptr(v)
}

// GetByPos reads a field by its position in the current layout. Positions
// outside the layout fail with ErrUnknownOrdinal; positions whose field
// the record's persisted layout lacked read as nil.
func (r *ManifestFileRecord) GetByPos(pos int) (interface{}, error) {
	return r.proj.Get(pos)
}

// SetByPos writes a field by its position in the current layout. Unknown
// positions are dropped silently so that newer writers can replay records
// onto older layouts.
func (r *ManifestFileRecord) SetByPos(pos int, value interface{}) {
	if pos == posPath && value != nil {
		value = fmt.Sprint(value)
	}
	r.proj.Set(pos, value)
}

// Positional returns the record's values in current-layout order, ready
// for positional encoding. Absent optionals are nil.
func (r *ManifestFileRecord) Positional() []interface{} {
	out := make([]interface{}, NumFields)
	for pos := 0; pos < NumFields; pos++ {
		v, _ := r.proj.Get(pos)
		out[pos] = v
	}
	return out
}

// Equals reports path equality. Two records pointing at the same manifest
// are interchangeable for commit planning regardless of the other fields.
func (r *ManifestFileRecord) Equals(other *ManifestFileRecord) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil {
		return false
	}
	return r.Path() == other.Path()
}

// Key returns the record's map/set identity, which is its path
func (r *ManifestFileRecord) Key() string {
	return r.Path()
}

// Copy returns a deep, independently owned copy. The file handle is not
// carried over; a length the source could not resolve stays unknown in
// the copy instead of failing the copy.
func (r *ManifestFileRecord) Copy() *ManifestFileRecord {
	cp := &ManifestFileRecord{proj: r.proj.Copy()}

	if v, _ := r.proj.Get(posLength); v == nil && r.file != nil {
		if n, err := r.Length(); err == nil {
			cp.proj.Set(posLength, n)
		}
	}

	if ps := r.Partitions(); ps != nil {
		cp.proj.Set(posPartitions, copySummaries(ps))
	}
	if km := r.KeyMetadata(); km != nil {
		cp.proj.Set(posKeyMetadata, append([]byte(nil), km...))
	}

	return cp
}

// CopyBuilder rebinds a manifest record to a new commit. Rebinding the
// snapshot id is the only mutation it exposes; everything else copies
// verbatim.
type CopyBuilder struct {
	src        *ManifestFileRecord
	snapshotID *int64
}

func (r *ManifestFileRecord) CopyBuilder() *CopyBuilder {
	return &CopyBuilder{src: r}
}

func (b *CopyBuilder) WithSnapshotID(id int64) *CopyBuilder {
	b.snapshotID = &id
	return b
}

func (b *CopyBuilder) Build() *ManifestFileRecord {
	cp := b.src.Copy()
	if b.snapshotID != nil {
		cp.proj.Set(posSnapshotID, *b.snapshotID)
	}
	return cp
}

// String renders every field; key metadata is never shown in cleartext
func (r *ManifestFileRecord) String() string {
	var b strings.Builder
	b.WriteString("manifest_file{")
	fmt.Fprintf(&b, "manifest_path=%s", r.Path())
	fmt.Fprintf(&b, ", manifest_length=%s", fmtLength(r))
	fmt.Fprintf(&b, ", partition_spec_id=%d", r.SpecID())
	fmt.Fprintf(&b, ", content=%s", r.Content())
	fmt.Fprintf(&b, ", sequence_number=%d", r.SequenceNumber())
	fmt.Fprintf(&b, ", min_sequence_number=%d", r.MinSequenceNumber())
	fmt.Fprintf(&b, ", added_snapshot_id=%s", fmtInt64Ptr(r.SnapshotID()))
	fmt.Fprintf(&b, ", added_files_count=%s", fmtInt32Ptr(r.AddedFilesCount()))
	fmt.Fprintf(&b, ", existing_files_count=%s", fmtInt32Ptr(r.ExistingFilesCount()))
	fmt.Fprintf(&b, ", deleted_files_count=%s", fmtInt32Ptr(r.DeletedFilesCount()))
	fmt.Fprintf(&b, ", added_rows_count=%s", fmtInt64Ptr(r.AddedRowsCount()))
	fmt.Fprintf(&b, ", existing_rows_count=%s", fmtInt64Ptr(r.ExistingRowsCount()))
	fmt.Fprintf(&b, ", deleted_rows_count=%s", fmtInt64Ptr(r.DeletedRowsCount()))
	fmt.Fprintf(&b, ", partitions=%d", len(r.Partitions()))
	if r.KeyMetadata() != nil {
		b.WriteString(", key_metadata=(redacted)")
	} else {
		b.WriteString(", key_metadata=null")
	}
	fmt.Fprintf(&b, ", first_row_id=%s", fmtInt64Ptr(r.FirstRowID()))
	b.WriteString("}")
	return b.String()
}

func fmtLength(r *ManifestFileRecord) string {
	if !r.HasLength() && r.file == nil {
		return "null"
	}
	n, err := r.Length()
	if err != nil {
		return "null"
	}
	return fmt.Sprint(n)
}

func fmtInt64Ptr(v *int64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(*v)
}

func fmtInt32Ptr(v *int32) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(*v)
}

// Positional values arrive from codecs with whatever integer width the
// container used; accessors normalize them.
func asInt32(v interface{}) int32 {
	switch n := v.(type) {
	case int32:
		return n
	case int:
		return int32(n)
	case int64:
		return int32(n)
	default:
		return 0
	}
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	default:
		return 0
	}
}

func asInt32Ptr(v interface{}) *int32 {
	if v == nil {
		return nil
	}
	n := asInt32(v)
	return &n
}

func asInt64Ptr(v interface{}) *int64 {
	if v == nil {
		return nil
	}
	n := asInt64(v)
	return &n
}
