package mapping

import "strings"

// StatusVocabulary translates planning sheet status text to the status
// option names of the task database. Lookup is case and whitespace
// insensitive; unknown or empty values fall back to Default.
type StatusVocabulary struct {
	Default  string
	synonyms map[string]string
}

// DefaultStatusVocabulary returns the Portuguese planning vocabulary used by
// the standard workbook template.
func DefaultStatusVocabulary() StatusVocabulary {
	v := StatusVocabulary{Default: "Not started"}
	v.synonyms = map[string]string{
		"não iniciado": "Not started",
		"em curso":     "In progress",
		"em progresso": "In progress",
		"em andamento": "In progress",
		"concluído":    "Done",
		"pausado":      "Paused",
		"parado":       "Paused",
		"cancelado":    "Canceled",
		"arquivado":    "Archived",
		"bloqueado":    "Blocked",
	}
	return v
}

// Canonical returns the database status name for a raw sheet value.
func (v StatusVocabulary) Canonical(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return v.Default
	}
	if name, ok := v.synonyms[key]; ok {
		return name
	}
	// Values already in database vocabulary pass through unchanged.
	for _, name := range v.synonyms {
		if strings.EqualFold(name, key) {
			return name
		}
	}
	return v.Default
}
