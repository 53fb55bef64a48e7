package dictionary

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown  FileFormat = iota
	FormatSnapshot            // msgpack trie snapshot
	FormatText                // one morpheme per line
)

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatSnapshot: {
		Format:      FormatSnapshot,
		Description: "Trie Snapshot",
		Extensions:  []string{".bin", ".msgpack"},
		MinSize:     4, // map header + version
	},
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Word List",
		Extensions:  []string{".txt", ".dic", ".lst"},
		MinSize:     1,
	},
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	if !HasExtension(filename, expectedFormat) {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, filepath.Ext(filename), formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatSnapshot {
		return validateSnapshotHeader(filename)
	}
	return nil
}

// validateSnapshotHeader checks that the file starts with a msgpack map, which every
// snapshot does.
func validateSnapshotHeader(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	head := make([]byte, 1)
	if _, err := io.ReadFull(file, head); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	b := head[0]
	if !(b >= 0x80 && b <= 0x8f) && b != 0xde && b != 0xdf {
		return fmt.Errorf("file %s does not start with a msgpack map (0x%02x)", filename, b)
	}

	log.Debugf("Snapshot file %s validated", filename)
	return nil
}

// DetectFileFormat attempts to detect the format of a file
func DetectFileFormat(filename string) (FileFormat, error) {
	for _, format := range []FileFormat{FormatSnapshot, FormatText} {
		if ValidateFileFormat(filename, format) == nil {
			return format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

// HasExtension reports whether filename ends in one of the extensions registered for format.
func HasExtension(filename string, format FileFormat) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range supportedFormats[format].Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
