package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/keyzone/internal/log"
)

// Set updates one dotted key (for example "label.text") in the config file
// at configPath. Comments and formatting elsewhere in the file are kept by
// editing the yaml.Node tree. The result must still decode into a valid
// Config, otherwise nothing is written.
func Set(configPath, key, value string) error {
	path := strings.Split(key, ".")
	for _, p := range path {
		if p == "" {
			return fmt.Errorf("invalid key %q", key)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode}}}
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}

	node := doc.Content[0]
	for i, name := range path {
		if node.Kind != yaml.MappingNode {
			return fmt.Errorf("%s is not a section", strings.Join(path[:i], "."))
		}
		node = child(node, name)
	}
	*node = scalarNode(value, node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if _, err := Parse(buf.Bytes()); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	log.Info(log.CatConfig, "Updated config", "path", configPath, "key", key)
	return nil
}

// Parse decodes data over Defaults and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// child returns the value node for name in mapping m, appending an empty
// entry when it is missing.
func child(m *yaml.Node, name string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == name {
			return m.Content[i+1]
		}
	}
	value := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: name},
		value,
	)
	return value
}

// scalarNode builds the replacement for old. The value is parsed as YAML so
// numbers and booleans keep their type; anything else becomes a string.
// The line comment of old is carried over.
func scalarNode(value string, old *yaml.Node) yaml.Node {
	var parsed yaml.Node
	n := yaml.Node{}
	if err := yaml.Unmarshal([]byte(value), &parsed); err == nil &&
		len(parsed.Content) == 1 && parsed.Content[0].Kind == yaml.ScalarNode {
		n = *parsed.Content[0]
		n.Line, n.Column = 0, 0
		n.HeadComment, n.FootComment = "", ""
	} else {
		n.SetString(value)
	}
	n.LineComment = old.LineComment
	return n
}
