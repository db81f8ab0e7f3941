package document

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxTextLen caps extracted text so a single oversized upload cannot blow
// out the model's context window. Applied uniformly to every file type.
const MaxTextLen = 50000

var filenameSanitizeRe = regexp.MustCompile(`[^\w.\-]`)

// Extract converts a file's raw bytes into plain text, dispatching on the
// lowercased extension. Container files (.msg) contribute their body text
// plus the text of every supported attachment.
func Extract(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var text string
	var err error
	switch ext {
	case ".txt":
		text, err = extractPlainText(data)
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDocx(data)
	case ".jpg", ".jpeg", ".png":
		text, err = extractImage(data)
	case ".msg":
		text, err = extractMsg(data)
	default:
		return "", &UnsupportedTypeError{Filename: filename}
	}
	if err != nil {
		return "", &ExtractionError{Filename: filename, Err: err}
	}

	return truncate(text, MaxTextLen), nil
}

func extractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("text file is not valid UTF-8")
	}
	return string(data), nil
}

// sanitizeFilename reduces a name to a safe character set before it is
// logged or dispatched on.
func sanitizeFilename(name string) string {
	s := filenameSanitizeRe.ReplaceAllString(name, "")
	if s == "" {
		return "unnamed"
	}
	return s
}

// truncate caps s at n characters (runes, not bytes).
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
