package app

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"screenkeep/internal/catalog"
)

// newLogger creates a structured zap logger writing to both
// logDir/screenkeep.log and stderr. The caller must Sync on shutdown.
func newLogger(logDir string) (*zap.Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{filepath.Join(logDir, "screenkeep.log"), "stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// zapAdapter wraps *zap.SugaredLogger to satisfy the catalog.Logger interface.
type zapAdapter struct {
	l *zap.SugaredLogger
}

func (a *zapAdapter) Debug(msg string, args ...any) { a.l.Debugw(msg, args...) }
func (a *zapAdapter) Info(msg string, args ...any)  { a.l.Infow(msg, args...) }
func (a *zapAdapter) Warn(msg string, args ...any)  { a.l.Warnw(msg, args...) }
func (a *zapAdapter) Error(msg string, args ...any) { a.l.Errorw(msg, args...) }

// Compile-time check that zapAdapter implements the catalog.Logger interface
var _ catalog.Logger = (*zapAdapter)(nil)
