package util

const (
	// PerPageLimit caps any page size requested by a client.
	PerPageLimit = 40
	// MaxOffset bounds the OFFSET of any paginated query (INT32_MAX - 1).
	MaxOffset = 2147483646
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeWEBP = "image/webp"
	MimePDF  = "application/pdf"
)

var AllowedAttachmentTypes = []string{MimePNG, MimeJPEG, MimeWEBP, MimePDF}
