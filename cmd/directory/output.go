package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func parseOutputFormat(v string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(v)); f {
	case "", formatText:
		return formatText, nil
	case formatJSON, formatYAML:
		return f, nil
	default:
		return "", withCode(exitUsage, fmt.Errorf("unsupported --format: %s", v))
	}
}

// render writes v as json or yaml, or calls text for the human format.
func render(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "json encode")
		}
		return nil
	case formatYAML:
		// Round-trip through JSON so yaml keys follow the json tags in field order.
		raw, err := json.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "yaml encode")
		}
		var node yaml.Node
		if err := yaml.Unmarshal(raw, &node); err != nil {
			return errors.Wrap(err, "yaml encode")
		}
		blockStyle(&node)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return errors.Wrap(err, "yaml encode")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(err, "yaml encode")
		}
		return nil
	default:
		return text(w)
	}
}

// blockStyle clears the flow and quoting styles the JSON input left on every node.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
