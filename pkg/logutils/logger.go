package logutils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New returns a logger at the given level. With an empty file path logs
// go to stderr in console form; otherwise JSON is written to the file,
// keeping stdout clean for rendered output.
//
// The level parameter can be one of: debug, info, warn, error, fatal.
func New(level string, file string) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}

	if file == "" {
		l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().
			Timestamp().
			Logger().
			Level(lvl)
		return l, closer, nil
	}

	logsDir := filepath.Dir(file)
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
	}

	osFile, err := os.Create(file)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}
	closer = func() { _ = osFile.Close() }

	l := zerolog.New(osFile).
		With().
		Timestamp().
		Logger().
		Level(lvl)

	return l, closer, nil
}
