package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

type LoggerConfig struct {
	LogLevel      hclog.Level `json:"logLevel"`
	LogFilePath   string      `json:"logFilePath"`
	AppendFile    bool        `json:"appendFile"`
	JSONLogFormat bool        `json:"jsonLogFormat"`
	Name          string      `json:"name"`
}

// NewLogger creates an hclog logger writing to the configured file, or to
// stderr when no file path is set.
func NewLogger(config LoggerConfig) (hclog.Logger, error) {
	var output io.Writer = os.Stderr

	if config.LogFilePath != "" {
		if err := CreateDirectoryIfNotExists(filepath.Dir(config.LogFilePath)); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		flags := os.O_CREATE | os.O_WRONLY
		if config.AppendFile {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}

		file, err := os.OpenFile(config.LogFilePath, flags, 0o640)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}

		output = file
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       config.Name,
		Level:      config.LogLevel,
		Output:     output,
		JSONFormat: config.JSONLogFormat,
	}), nil
}
