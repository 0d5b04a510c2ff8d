package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"html"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/scgen/internal/domain"
)

// parseSpecification decodes an uploaded contract specification. HTML
// entities are decoded from the raw document first, as specifications
// often arrive escaped from web forms.
func parseSpecification(data []byte) (map[string]any, error) {
	text := html.UnescapeString(string(data))

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, domain.NewValidationError("specification", "malformed JSON: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, domain.NewValidationError("specification", "unexpected content after JSON document")
	}

	model, ok := doc.(map[string]any)
	if !ok {
		return nil, domain.NewValidationError("specification", "document must be a JSON object")
	}
	return model, nil
}

// readSpecification validates, reads and parses a specification upload
func readSpecification(f *domain.FileHandle) (map[string]any, error) {
	data, err := readFile(f, specificationRule)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, domain.NewValidationError("specification", "file is empty")
	}
	return parseSpecification(data)
}

// stringField returns the first non-blank string among keys
func stringField(model map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := model[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

// mergeTemplateData lifts the keys of a top-level "templateData" object
// into the root without overriding existing keys, then drops it.
func mergeTemplateData(model map[string]any) {
	extra, ok := model["templateData"].(map[string]any)
	if !ok {
		return
	}
	for key, value := range extra {
		if _, exists := model[key]; !exists {
			model[key] = value
		}
	}
	delete(model, "templateData")
}

// sborSections are the specification lists whose derive lists need ScryptoSbor
var sborSections = []string{"structs", "enums", "events"}

// addScryptoSbor appends ScryptoSbor to every existing derive list under
// structs, enums and events.
func addScryptoSbor(model map[string]any) {
	for _, section := range sborSections {
		items, ok := model[section].([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			derive, ok := entry["derive"].([]any)
			if !ok {
				continue
			}
			if !lo.Contains(derive, any("ScryptoSbor")) {
				entry["derive"] = append(derive, "ScryptoSbor")
			}
		}
	}
}
