package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeAllocationRequest parses a network document. YAML is used for
// .yaml/.yml names, JSON for everything else.
func DecodeAllocationRequest(name string, data []byte) (*AllocationRequest, error) {
	var req AllocationRequest
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("decode %q: parse yaml: %w", name, err)
		}
	default:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, fmt.Errorf("decode %q: empty document", name)
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("decode %q: parse json: %w", name, err)
		}
	}
	return &req, nil
}

// ReadAllocationFile loads a network document from disk.
func ReadAllocationFile(path string) (*AllocationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read allocation file %q: %w", path, err)
	}
	return DecodeAllocationRequest(path, data)
}
