// ABOUTME: Extracts plain text from uploaded financial documents
// ABOUTME: Dispatches on file extension to the txt, markdown, pdf, docx and xlsx readers
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"
)

// ErrUnsupported is returned for file types no reader handles
var ErrUnsupported = errors.New("unsupported file type")

type readerFunc func(data []byte) (string, error)

var readers = map[string]readerFunc{
	".txt":      readPlain,
	".text":     readPlain,
	".csv":      readPlain,
	".md":       readMarkdown,
	".markdown": readMarkdown,
	".pdf":      readPDF,
	".docx":     readDOCX,
	".xlsx":     readXLSX,
}

// Extensions lists the supported file extensions in sorted order
func Extensions() []string {
	exts := make([]string, 0, len(readers))
	for ext := range readers {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Supported reports whether name has an extension a reader handles
func Supported(name string) bool {
	_, ok := readers[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Extract returns the text content of data, choosing the reader by name's extension
func Extract(name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	read, ok := readers[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	text, err := read(data)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filepath.Base(name), err)
	}
	return normalize(text), nil
}

// ExtractFile reads path from disk and extracts its text
func ExtractFile(path string) (string, error) {
	if !Supported(path) {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return Extract(path, data)
}

func readPlain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("text is not valid UTF-8")
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

// normalize unifies line endings and drops trailing whitespace on each line
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
