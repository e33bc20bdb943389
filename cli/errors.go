package cli

import "github.com/gear6io/floe/pkg/errors"

// CLI-specific error codes
var (
	ErrFileReadFailed        = errors.MustNewCode("cli.file_read_failed")
	ErrSchemaDefinitionBad   = errors.MustNewCode("cli.schema_definition_invalid")
	ErrMetadataInvalid       = errors.MustNewCode("cli.metadata_invalid")
	ErrDescriptorInvalid     = errors.MustNewCode("cli.descriptor_invalid")
	ErrPropertyFlagMalformed = errors.MustNewCode("cli.property_flag_malformed")
	ErrContentInvalid        = errors.MustNewCode("cli.content_invalid")
	ErrMissingInput          = errors.MustNewCode("cli.missing_input")
)
