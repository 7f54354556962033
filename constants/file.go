package constants

import "strings"

// Document formats accepted by the text source.
const (
	TEXT  = "TEXT"
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

// DocumentFormats holds the formats a document can be read from.
var DocumentFormats = []string{TEXT, PDF, IMAGE}

// AllowedExtensions holds the default document extensions for batch and watch ingestion.
var AllowedExtensions = map[string]struct{}{
	"txt":  {},
	"text": {},
	"md":   {},
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"tif":  {},
	"tiff": {},
}

// Summary persistence.
const (
	SummaryFilePrefix      = "health_summary_"
	SummaryFileExt         = ".json"
	SummaryTimestampLayout = "20060102_150405"
)

// DefaultAgentVersion is stamped into summary metadata when none is configured.
const DefaultAgentVersion = "v1.0"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns TEXT, PDF or IMAGE for a known extension, "" otherwise.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "txt", "text", "md":
		return TEXT
	case "pdf":
		return PDF
	case "png", "jpg", "jpeg", "tif", "tiff":
		return IMAGE
	default:
		return ""
	}
}
