package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/meigma/storezip"
)

var errInvalidManifest = errors.New("invalid bundle manifest")

// manifestDoc is the on-disk manifest layout:
//
//	files:
//	  README.md: "# Title"
//	  src/main.go: |
//	    package main
//
// Files keep the order they are written in.
type manifestDoc struct {
	Files yaml.Node `yaml:"files"`
}

func loadManifest(path string) (storezip.Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	bundle, err := parseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bundle, nil
}

func parseManifest(data []byte) (storezip.Bundle, error) {
	var doc manifestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidManifest, err)
	}
	node := &doc.Files
	if node.Kind == 0 {
		return storezip.Bundle{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: files must be a mapping", errInvalidManifest, node.Line)
	}

	bundle := make(storezip.Bundle, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d: content of %q must be a string", errInvalidManifest, value.Line, key.Value)
		}
		var content string
		if value.Tag != "!!null" {
			content = value.Value
		}
		bundle.Add(key.Value, content)
	}
	return bundle, nil
}
