package flowfile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatBundle Format = "flowz"
)

// FormatOf picks the format from a file extension, defaulting to JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".flowz", ".zip":
		return FormatBundle
	}
	return FormatJSON
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (*Document, error) {
	switch format {
	case FormatYAML:
		return ParseYAML(data)
	case FormatBundle:
		doc, _, err := ReadBundleBytes(data)
		return doc, err
	}
	return ParseJSON(data)
}

// Encode serialises doc in the given format.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return ToYAML(doc)
	case FormatBundle:
		var buf bytes.Buffer
		if err := WriteBundle(&buf, doc, nil); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	data, err := ToJSON(doc, true)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ReadFile reads a document, choosing the format by extension.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// WriteFile writes a document, choosing the format by extension.
func WriteFile(path string, doc *Document) error {
	data, err := Encode(doc, FormatOf(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadChangesFile reads a JSON or YAML change list.
func ReadChangesFile(path string) ([]ChangeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if FormatOf(path) == FormatYAML {
		return ParseChangesYAML(data)
	}
	return ParseChangesJSON(data)
}

// Bundle member names.
const (
	bundleDocument = "document.json"
	bundleConfig   = "config.toml"
)

// WriteBundle writes a zip archive holding the document and, when cfg is
// not nil, the config it was edited with.
func WriteBundle(w io.Writer, doc *Document, cfg *Config) error {
	zw := zip.NewWriter(w)

	data, err := ToJSON(doc, true)
	if err != nil {
		return err
	}
	dw, err := zw.Create(bundleDocument)
	if err != nil {
		return err
	}
	if _, err := dw.Write(data); err != nil {
		return err
	}

	if cfg != nil {
		cw, err := zw.Create(bundleConfig)
		if err != nil {
			return err
		}
		if err := toml.NewEncoder(cw).Encode(cfg); err != nil {
			return err
		}
	}

	return zw.Close()
}

// WriteBundleFile writes a bundle holding doc and cfg to path.
func WriteBundleFile(path string, doc *Document, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteBundle(f, doc, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadBundle reads a zip archive written by WriteBundle. The config is nil
// when the archive has none.
func ReadBundle(r io.ReaderAt, size int64) (*Document, *Config, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, nil, err
	}

	var docData, cfgData []byte
	for _, f := range zr.File {
		if f.Name != bundleDocument && f.Name != bundleConfig {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, nil, err
		}

		if f.Name == bundleDocument {
			docData = data
		} else {
			cfgData = data
		}
	}

	if docData == nil {
		return nil, nil, fmt.Errorf("%s not found in archive", bundleDocument)
	}

	doc, err := ParseJSON(docData)
	if err != nil {
		return nil, nil, err
	}

	var cfg *Config
	if cfgData != nil {
		cfg = Default()
		if err := toml.Unmarshal(cfgData, cfg); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", bundleConfig, err)
		}
	}

	return doc, cfg, nil
}

// ReadBundleBytes reads a bundle held in memory.
func ReadBundleBytes(data []byte) (*Document, *Config, error) {
	return ReadBundle(bytes.NewReader(data), int64(len(data)))
}
