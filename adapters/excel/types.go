package excel

import (
	"path/filepath"
	"strings"
)

// SupportedExtensions are the workbook formats the reader accepts.
var SupportedExtensions = []string{".xlsx", ".xls"}

// IsSupportedFilename reports whether the file name carries a supported
// workbook extension.
func IsSupportedFilename(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ReaderConfig holds tuning knobs for table extraction.
type ReaderConfig struct {
	// MaxSheets caps how many sheets of one workbook are scanned. Zero means
	// no limit.
	MaxSheets int
}

// DefaultReaderConfig returns sensible defaults for workbook reading.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{MaxSheets: 0}
}
