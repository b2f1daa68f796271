package constants

import (
	"path/filepath"
	"strings"
)

const (
	ImportFormatUnknown = iota
	ImportFormatXLSX
)

// DetectImportFormat menentukan format file import kamar dari ekstensinya.
func DetectImportFormat(filename string) int {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ImportFormatXLSX
	default:
		return ImportFormatUnknown
	}
}
