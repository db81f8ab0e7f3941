package document

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jaytaylor/html2text"
	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/unicode"
)

// Outlook .msg files are CFB (OLE2) compound documents. MAPI properties
// live in streams named "__substg1.0_" + 4 hex digits of property id +
// 4 hex digits of property type; attachments sit in storages named
// "__attach_version1.0_#NNNNNNNN".
const (
	substgPrefix = "__substg1.0_"
	attachPrefix = "__attach_version1.0_#"

	propBody            = "1000" // PR_BODY
	propHTML            = "1013" // PR_BODY_HTML / PR_HTML
	propAttachData      = "3701" // PR_ATTACH_DATA_BIN
	propAttachShortName = "3704" // PR_ATTACH_FILENAME
	propAttachLongName  = "3707" // PR_ATTACH_LONG_FILENAME

	typeUnicode = "001F" // UTF-16LE string
	typeANSI    = "001E"
	typeBinary  = "0102"
)

type msgAttachment struct {
	longName  string
	shortName string
	data      []byte
}

// msgContent holds the message properties pulled from the container
// before assembly: the body in its possible shapes plus attachments
// keyed by their parent storage name.
type msgContent struct {
	bodyUnicode []byte
	bodyANSI    []byte
	htmlBody    []byte
	attachments map[string]*msgAttachment
}

// extractMsg pulls the message body (HTML preferred, tag-stripped) and
// then the text of every supported attachment, joined with newlines.
func extractMsg(data []byte) (string, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open msg container: %w", err)
	}
	return assembleMsgText(readMsgStreams(doc))
}

// readMsgStreams walks the container's property streams into msgContent.
func readMsgStreams(doc *mscfb.Reader) *msgContent {
	c := &msgContent{attachments: make(map[string]*msgAttachment)}

	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Size == 0 || !strings.HasPrefix(entry.Name, substgPrefix) {
			continue
		}
		tag := strings.TrimPrefix(entry.Name, substgPrefix)
		if len(tag) < 8 {
			continue
		}
		propID, propType := strings.ToUpper(tag[:4]), strings.ToUpper(tag[4:8])

		if len(entry.Path) == 0 {
			// Top-level message properties.
			switch {
			case propID == propBody && propType == typeUnicode:
				c.bodyUnicode, _ = readStream(entry)
			case propID == propBody && propType == typeANSI:
				c.bodyANSI, _ = readStream(entry)
			case propID == propHTML:
				c.htmlBody, _ = readStream(entry)
				if propType == typeUnicode {
					c.htmlBody = []byte(decodeUTF16(c.htmlBody))
				}
			}
			continue
		}

		// Attachment sub-streams, grouped by their parent storage.
		storage := entry.Path[len(entry.Path)-1]
		if !strings.HasPrefix(storage, attachPrefix) {
			continue
		}
		att := c.attachments[storage]
		if att == nil {
			att = &msgAttachment{}
			c.attachments[storage] = att
		}
		switch propID {
		case propAttachData:
			att.data, _ = readStream(entry)
		case propAttachLongName:
			att.longName = decodeStringProp(entry, propType)
		case propAttachShortName:
			att.shortName = decodeStringProp(entry, propType)
		}
	}

	return c
}

// assembleMsgText turns the collected properties into plain text: the
// body (HTML preferred, then Unicode, then ANSI) followed by each
// supported attachment's text, joined with newlines.
func assembleMsgText(c *msgContent) (string, error) {
	var fragments []string

	switch {
	case len(c.htmlBody) > 0:
		text, err := html2text.FromString(string(c.htmlBody), html2text.Options{TextOnly: true})
		if err != nil {
			return "", fmt.Errorf("strip html body: %w", err)
		}
		if strings.TrimSpace(text) != "" {
			fragments = append(fragments, text)
		}
	case len(c.bodyUnicode) > 0:
		fragments = append(fragments, decodeUTF16(c.bodyUnicode))
	case len(c.bodyANSI) > 0:
		fragments = append(fragments, string(c.bodyANSI))
	}

	// Deterministic attachment order.
	names := make([]string, 0, len(c.attachments))
	for name := range c.attachments {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		att := c.attachments[name]
		if len(att.data) == 0 {
			continue
		}
		filename := att.longName
		if filename == "" {
			filename = att.shortName
		}
		filename = sanitizeFilename(filename)

		text, err := extractAttachment(filename, att.data)
		if err != nil {
			return "", fmt.Errorf("attachment %s: %w", filename, err)
		}
		if strings.TrimSpace(text) != "" {
			fragments = append(fragments, text)
		}
	}

	return strings.Join(fragments, "\n"), nil
}

// extractAttachment dispatches an embedded file by its own extension.
// Attachment types the extractor cannot read are skipped, not fatal.
func extractAttachment(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return extractPlainText(data)
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDocx(data)
	case ".jpg", ".jpeg", ".png":
		return extractImage(data)
	default:
		log.Printf("Skipping unsupported attachment: %s", filename)
		return "", nil
	}
}

func readStream(entry *mscfb.File) ([]byte, error) {
	buf := make([]byte, entry.Size)
	if _, err := io.ReadFull(entry, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func decodeStringProp(entry *mscfb.File, propType string) string {
	raw, err := readStream(entry)
	if err != nil {
		return ""
	}
	if propType == typeUnicode {
		return decodeUTF16(raw)
	}
	return strings.TrimRight(string(raw), "\x00")
}

func decodeUTF16(b []byte) string {
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(b)
	if err != nil {
		return strings.TrimRight(string(b), "\x00")
	}
	return strings.TrimRight(string(out), "\x00")
}
