package document

import (
	"strings"
	"testing"
)

// utf16le encodes an ASCII string as UTF-16LE with a trailing NUL, the
// shape of a 001F property stream.
func utf16le(s string) []byte {
	out := make([]byte, 0, 2*len(s)+2)
	for i := 0; i < len(s); i++ {
		out = append(out, s[i], 0x00)
	}
	return append(out, 0x00, 0x00)
}

func TestAssembleMsgText_HTMLBodyPreferred(t *testing.T) {
	c := &msgContent{
		htmlBody:    []byte("<html><body><p>Hello from <b>HTML</b></p></body></html>"),
		bodyUnicode: utf16le("plain unicode body"),
		bodyANSI:    []byte("plain ansi body"),
	}

	got, err := assembleMsgText(c)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(got, "Hello from") || !strings.Contains(got, "HTML") {
		t.Fatalf("expected html body text, got %q", got)
	}
	if strings.Contains(got, "<") {
		t.Fatalf("expected tags stripped, got %q", got)
	}
	if strings.Contains(got, "plain unicode body") || strings.Contains(got, "plain ansi body") {
		t.Fatalf("expected plain bodies ignored when html is present, got %q", got)
	}
}

func TestAssembleMsgText_UnicodeBodyFallback(t *testing.T) {
	c := &msgContent{
		bodyUnicode: utf16le("unicode body"),
		bodyANSI:    []byte("ansi body"),
	}

	got, err := assembleMsgText(c)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "unicode body" {
		t.Fatalf("expected unicode body preferred over ansi, got %q", got)
	}
}

func TestAssembleMsgText_ANSIBodyFallback(t *testing.T) {
	c := &msgContent{bodyANSI: []byte("ansi body")}

	got, err := assembleMsgText(c)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "ansi body" {
		t.Fatalf("expected ansi body, got %q", got)
	}
}

func TestAssembleMsgText_AttachmentsJoinedInStorageOrder(t *testing.T) {
	c := &msgContent{
		bodyANSI: []byte("body"),
		attachments: map[string]*msgAttachment{
			"__attach_version1.0_#00000001": {longName: "second.txt", data: []byte("second attachment")},
			"__attach_version1.0_#00000000": {longName: "first.txt", data: []byte("first attachment")},
		},
	}

	got, err := assembleMsgText(c)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := "body\nfirst attachment\nsecond attachment"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestAssembleMsgText_ShortNameFallback(t *testing.T) {
	c := &msgContent{
		attachments: map[string]*msgAttachment{
			"__attach_version1.0_#00000000": {shortName: "NOTES~1.TXT", data: []byte("short-named attachment")},
		},
	}

	got, err := assembleMsgText(c)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "short-named attachment" {
		t.Fatalf("expected the short name to drive dispatch, got %q", got)
	}
}

func TestAssembleMsgText_SkipsUnsupportedAndEmptyAttachments(t *testing.T) {
	c := &msgContent{
		bodyANSI: []byte("body"),
		attachments: map[string]*msgAttachment{
			"__attach_version1.0_#00000000": {longName: "archive.zip", data: []byte{0x50, 0x4b, 0x03, 0x04}},
			"__attach_version1.0_#00000001": {longName: "empty.txt"},
			"__attach_version1.0_#00000002": {longName: "kept.txt", data: []byte("kept")},
		},
	}

	got, err := assembleMsgText(c)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "body\nkept" {
		t.Fatalf("expected unsupported and empty attachments skipped, got %q", got)
	}
}

func TestAssembleMsgText_Empty(t *testing.T) {
	got, err := assembleMsgText(&msgContent{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty text for an empty message, got %q", got)
	}
}
