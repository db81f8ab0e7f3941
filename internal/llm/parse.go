package llm

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one structured extraction result for a person/document. All
// fields are strings; absent fields stay empty.
type Record struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	Number              string `json:"number"`
	ProfessionalSummary string `json:"professional_summary"`
	ProjectName         string `json:"project_name"`
	Skills              string `json:"skills"`
}

// ParseRecords strips code-fence markup from the model's reply and parses
// it as a JSON array of records. List-valued fields are flattened to
// comma-joined strings; every value is coerced to a string.
func ParseRecords(raw string) ([]Record, error) {
	cleaned := stripCodeFences(raw)

	var objs []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &objs); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	records := make([]Record, 0, len(objs))
	for _, obj := range objs {
		records = append(records, Record{
			Name:                coerceString(obj["name"]),
			Email:               coerceString(obj["email"]),
			Number:              coerceString(obj["number"]),
			ProfessionalSummary: coerceString(obj["professional_summary"]),
			ProjectName:         coerceString(obj["project_name"]),
			Skills:              coerceString(obj["skills"]),
		})
	}
	return records, nil
}

// stripCodeFences removes ``` markers and the stray bare "json" line some
// models emit ahead of the payload.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if line, rest, found := strings.Cut(s, "\n"); found && strings.TrimSpace(line) == "json" {
		s = strings.TrimSpace(rest)
	}
	return s
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, coerceString(e))
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
