package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/b0bbywan/go-luminous-portal/logger"
)

// document is the on-disk shape of the user settings file.
type document struct {
	ColorScheme string `toml:"color_scheme"`
	AccentColor string `toml:"accent_color"`
}

// Decode parses a settings document. Every field that cannot be decoded falls
// back to its default; the returned errors describe each fallback taken.
func Decode(data []byte) (Config, []error) {
	cfg := Default()
	var doc document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return cfg, []error{&DocumentError{Err: err}}
	}

	var errs []error
	if doc.ColorScheme != "" {
		scheme, err := ParseColorScheme(doc.ColorScheme)
		if err != nil {
			errs = append(errs, err)
		} else {
			cfg.ColorScheme = scheme
		}
	}
	if doc.AccentColor != "" {
		accent, err := ParseAccentColor(doc.AccentColor)
		if err != nil {
			errs = append(errs, err)
		} else {
			cfg.AccentColor = accent
		}
	}
	return cfg, errs
}

// Encode renders cfg as a settings document.
func Encode(cfg Config) ([]byte, error) {
	doc := document{
		ColorScheme: cfg.ColorScheme.String(),
		AccentColor: cfg.AccentColor.Hex(),
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadDocument reads the settings document at path.
// A missing file is replaced by a freshly written default document. Any other
// read failure is returned so the caller can keep its current snapshot.
// An empty path yields the defaults.
func LoadDocument(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("[settings] %s not found, creating default document", path)
			if werr := writeDefaultDocument(path); werr != nil {
				logger.Warn("[settings] failed to create default document: %v", werr)
			}
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg, errs := Decode(data)
	for _, e := range errs {
		logger.Warn("[settings] %s: %v, falling back to default", path, e)
	}
	return cfg, nil
}

// writeDefaultDocument creates path with default content. An existing file is left untouched.
func writeDefaultDocument(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := Encode(Default())
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return err
	}
	_, werr := f.Write(data)
	if err := f.Close(); err != nil && werr == nil {
		werr = err
	}
	return werr
}
