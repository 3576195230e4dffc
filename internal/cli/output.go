package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func validateFormat(f string) error {
	switch f {
	case formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", f)
	}
}

// writeResult renders v in the chosen format. YAML is produced from the
// JSON encoding so both formats share the token field names.
func writeResult(w io.Writer, format string, pretty bool, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if format != formatYAML {
		_, err := w.Write(buf.Bytes())
		return err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(buf.Bytes(), &node); err != nil {
		return fmt.Errorf("convert result to yaml: %w", err)
	}
	blockStyle(&node)

	ye := yaml.NewEncoder(w)
	ye.SetIndent(2)
	if err := ye.Encode(&node); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return ye.Close()
}

// blockStyle drops the flow and quoting styles the JSON source left on
// every node; the encoder then quotes only where YAML needs it. Strings that
// are blank or span lines stay double-quoted: a literal block cannot carry
// a value made only of line breaks.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" &&
		(strings.Contains(n.Value, "\n") || strings.TrimSpace(n.Value) == "") {
		n.Style = yaml.DoubleQuotedStyle
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}
