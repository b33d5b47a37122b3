package state

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"tomdx/css"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

// LoadClassOverrides reads class override stylesheet configured for the
// document, if any. Must be called after configuration and logger are set.
func (e *LocalEnv) LoadClassOverrides() error {
	if e.Cfg == nil || e.Cfg.Document.Classes.StylesheetPath == "" {
		return nil
	}
	path := e.Cfg.Document.Classes.StylesheetPath

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read class stylesheet: %w", err)
	}
	sheet := css.NewParser(e.Log).Parse(data, path)
	for _, w := range sheet.Warnings {
		e.Log.Warn("Class stylesheet", zap.String("path", path), zap.String("warning", w))
	}
	e.ClassOverrides = sheet.ClassOverrides()
	e.Log.Debug("Class overrides loaded", zap.String("path", path), zap.Int("count", len(e.ClassOverrides)))
	return nil
}
