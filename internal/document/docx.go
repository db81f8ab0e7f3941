package document

import (
	"bytes"

	"code.sajari.com/docconv"
)

// extractDocx returns the concatenated paragraph text of a Word document.
func extractDocx(data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return text, nil
}
