package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolvePaths makes every configured path absolute. Relative paths are
// resolved against baseDir; an empty baseDir means the working directory.
func (c *Config) ResolvePaths(baseDir string) error {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	for _, p := range []*string{
		&c.Paths.DataFile,
		&c.Paths.LogsDir,
		&c.Logging.FilePath,
		&c.Output.XLSXFile,
		&c.Output.CSVDir,
		&c.Telemetry.TraceFile,
		&c.Telemetry.MetricsFile,
	} {
		*p = resolve(baseDir, *p)
	}

	return nil
}

// EnsureDirectories creates the directories that output files are written to
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogsDir}
	if c.Logging.Output != "stderr" && c.Logging.FilePath != "" {
		dirs = append(dirs, filepath.Dir(c.Logging.FilePath))
	}
	if c.Output.CSVDir != "" {
		dirs = append(dirs, c.Output.CSVDir)
	}
	for _, f := range []string{c.Output.XLSXFile, c.Telemetry.TraceFile, c.Telemetry.MetricsFile} {
		if f != "" {
			dirs = append(dirs, filepath.Dir(f))
		}
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
