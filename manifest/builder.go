package manifest

// Builder assembles a complete manifest-file record field by field. Used
// when the manifest's statistics were computed elsewhere, e.g. while
// re-reading a manifest list or in fixtures.
type Builder struct {
	rec *ManifestFileRecord
}

// NewBuilder starts a record for the given manifest path and spec.
// Content defaults to data, sequence numbers to zero.
func NewBuilder(path string, specID int32) *Builder {
	rec := &ManifestFileRecord{
		proj: NewProjectedStruct(baseFieldIDs, baseFieldIDs),
	}
	rec.proj.Set(posPath, path)
	rec.proj.Set(posSpecID, specID)
	rec.proj.Set(posContent, int32(ManifestContentData))
	rec.proj.Set(posSequenceNumber, int64(0))
	rec.proj.Set(posMinSequenceNumber, int64(0))
	return &Builder{rec: rec}
}

func (b *Builder) Length(n int64) *Builder {
	b.rec.proj.Set(posLength, n)
	return b
}

func (b *Builder) Content(c ManifestContent) *Builder {
	b.rec.proj.Set(posContent, int32(c))
	return b
}

func (b *Builder) SequenceNumber(n int64) *Builder {
	b.rec.proj.Set(posSequenceNumber, n)
	return b
}

func (b *Builder) MinSequenceNumber(n int64) *Builder {
	b.rec.proj.Set(posMinSequenceNumber, n)
	return b
}

func (b *Builder) SnapshotID(id int64) *Builder {
	b.rec.proj.Set(posSnapshotID, id)
	return b
}

func (b *Builder) AddedFiles(n int32) *Builder {
	b.rec.proj.Set(posAddedFilesCount, n)
	return b
}

func (b *Builder) ExistingFiles(n int32) *Builder {
	b.rec.proj.Set(posExistingFilesCount, n)
	return b
}

func (b *Builder) DeletedFiles(n int32) *Builder {
	b.rec.proj.Set(posDeletedFilesCount, n)
	return b
}

func (b *Builder) AddedRows(n int64) *Builder {
	b.rec.proj.Set(posAddedRowsCount, n)
	return b
}

func (b *Builder) ExistingRows(n int64) *Builder {
	b.rec.proj.Set(posExistingRowsCount, n)
	return b
}

func (b *Builder) DeletedRows(n int64) *Builder {
	b.rec.proj.Set(posDeletedRowsCount, n)
	return b
}

func (b *Builder) Partitions(summaries ...*PartitionFieldSummary) *Builder {
	b.rec.proj.Set(posPartitions, summaries)
	return b
}

func (b *Builder) KeyMetadata(km []byte) *Builder {
	b.rec.proj.Set(posKeyMetadata, km)
	return b
}

func (b *Builder) FirstRowID(id int64) *Builder {
	b.rec.proj.Set(posFirstRowID, id)
	return b
}

// Build returns the assembled record. The builder must not be reused.
func (b *Builder) Build() *ManifestFileRecord {
	return b.rec
}
