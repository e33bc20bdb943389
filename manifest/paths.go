package manifest

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MetadataDir returns the metadata directory under a table location
func MetadataDir(tableLocation string) string {
	return strings.TrimRight(tableLocation, "/") + "/metadata"
}

// NewManifestPath returns the location for the nth manifest written by one
// commit attempt, e.g. <location>/metadata/<commit-uuid>-m0.avro
func NewManifestPath(tableLocation string, commitUUID uuid.UUID, ordinal int) string {
	return fmt.Sprintf("%s/%s-m%d.avro", MetadataDir(tableLocation), commitUUID, ordinal)
}

// NewManifestListPath returns the location of the manifest list for a
// snapshot commit attempt, e.g. <location>/metadata/snap-<id>-<attempt>-<uuid>.avro
func NewManifestListPath(tableLocation string, snapshotID int64, attempt int, commitUUID uuid.UUID) string {
	return fmt.Sprintf("%s/snap-%d-%d-%s.avro", MetadataDir(tableLocation), snapshotID, attempt, commitUUID)
}
