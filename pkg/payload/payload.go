// Package payload loads invocation payloads and multi-task files. JSON is
// accepted wherever YAML is, since it is a subset.
package payload

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/afc-network/afcctl/pkg/util"
)

// Parse decodes one payload document. An empty document yields nil.
func Parse(data []byte) (interface{}, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var out interface{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing payload: %w", err)
	}
	return Normalize(out)
}

// Read decodes a payload from r.
func Read(r io.Reader) (interface{}, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadFile decodes the payload in path; "-" reads stdin.
func LoadFile(path string) (interface{}, error) {
	if path == "-" {
		return Read(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Normalize converts decoded documents to the shapes the schema layer
// accepts: string-keyed maps and []interface{} lists.
func Normalize(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			n, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			key, ok := k.(string)
			if !ok {
				return nil, util.NewValidationError(fmt.Sprintf("non-string key %v in payload", k))
			}
			n, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			n, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return v, nil
	}
}
