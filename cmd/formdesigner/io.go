package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdesigner/pkg/library"
	"github.com/goliatone/go-formdesigner/pkg/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// readDesign loads a design document from path, or stdin for "-".
func readDesign(path string) (model.Design, error) {
	data, err := readInput(path)
	if err != nil {
		return model.Design{}, err
	}
	design, err := library.Decode(data)
	if err != nil {
		return model.Design{}, fmt.Errorf("decode design %s: %w", path, err)
	}
	return design, nil
}

// readValues loads a JSON or YAML value bag. An empty path yields nil.
func readValues(path string) (model.Values, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	values := model.Values{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		err = json.Unmarshal(trimmed, &values)
	} else {
		err = yaml.Unmarshal(trimmed, &values)
	}
	if err != nil {
		return nil, fmt.Errorf("decode values %s: %w", path, err)
	}
	return values, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to path, or to the fallback writer when path is
// empty.
func writeOutput(path string, data []byte, fallback io.Writer) error {
	if strings.TrimSpace(path) == "" {
		_, err := fallback.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
