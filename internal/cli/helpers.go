package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/guardline-dev/guardline/internal/document"
	"github.com/guardline-dev/guardline/internal/engine"
)

// newEngine loads the config named by --config and builds an engine.
func newEngine() (*engine.Engine, error) {
	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	eng, err := engine.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return eng, nil
}

// loadDoc reads a source file into a Document. An empty language falls
// back to extension-based detection.
func loadDoc(path, language string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if language == "" {
		language = document.DetectLanguage(path)
	}
	return document.New(filepath.Clean(path), language, string(data)), nil
}
