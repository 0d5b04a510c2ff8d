package usecase

import (
	"fmt"
	"slices"
	"strings"

	"github.com/trebuchet-org/scgen/internal/domain"
)

// fileRule describes an acceptable upload
type fileRule struct {
	field      string
	extensions []string
	// contentType, when set, must appear in a declared content type
	contentType string
}

var (
	specificationRule = fileRule{field: "specification", extensions: []string{".json"}, contentType: "json"}
	solidityRule      = fileRule{field: "source", extensions: []string{".sol"}}
	projectRule       = fileRule{field: "source", extensions: []string{".zip"}}
	evmBytecodeRule   = fileRule{field: "bytecode", extensions: []string{".bin"}}
	evmABIRule        = fileRule{field: "abi", extensions: []string{".abi", ".json"}}
	programRule       = fileRule{field: "program", extensions: []string{".so"}}
	keypairRule       = fileRule{field: "keypair", extensions: []string{".json"}}
	wasmRule          = fileRule{field: "package", extensions: []string{".wasm"}}
	rpdRule           = fileRule{field: "schema", extensions: []string{".rpd"}}
)

// validateFile checks metadata only, so nothing is read from an oversized
// or mistyped upload.
func validateFile(f *domain.FileHandle, rule fileRule) error {
	if f == nil || f.Name == "" {
		return domain.NewValidationError(rule.field, "file is required")
	}
	if !slices.Contains(rule.extensions, f.Ext()) {
		return domain.NewValidationError(rule.field, "unsupported file extension %q, expected %s",
			f.Ext(), strings.Join(rule.extensions, " or "))
	}
	if rule.contentType != "" && f.ContentType != "" && !strings.Contains(strings.ToLower(f.ContentType), rule.contentType) {
		return domain.NewValidationError(rule.field, "unsupported content type %q", f.ContentType)
	}
	if f.Size <= 0 {
		return domain.NewValidationError(rule.field, "file is empty")
	}
	if f.Size > domain.MaxUploadSize {
		return domain.NewValidationError(rule.field, "file exceeds maximum size of %d MiB", domain.MaxUploadSize/(1024*1024))
	}
	return nil
}

// readFile validates then reads an upload
func readFile(f *domain.FileHandle, rule fileRule) ([]byte, error) {
	if err := validateFile(f, rule); err != nil {
		return nil, err
	}
	data, err := f.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rule.field, err)
	}
	if len(data) == 0 {
		return nil, domain.NewValidationError(rule.field, "file is empty")
	}
	return data, nil
}
