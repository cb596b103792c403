package conf

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tphakala/calendar-go/internal/errors"
)

const osWindows = "windows"

// GetDefaultConfigPaths returns the configuration search paths for the current OS.
// If config.yaml exists in one of them, only that path is returned.
func GetDefaultConfigPaths() ([]string, error) {
	var configPaths []string

	exePath, err := os.Executable()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "get-executable-path").
			Build()
	}
	exeDir := filepath.Dir(exePath)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "get-home-directory").
			Build()
	}

	switch runtime.GOOS {
	case osWindows:
		configPaths = []string{
			exeDir,
			filepath.Join(homeDir, "AppData", "Roaming", "calendar-go"),
		}
	default:
		configPaths = []string{
			filepath.Join(homeDir, ".config", "calendar-go"),
			"/etc/calendar-go",
		}
	}

	for _, path := range configPaths {
		if _, err := os.Stat(filepath.Join(path, "config.yaml")); err == nil {
			return []string{path}, nil
		}
	}

	return configPaths, nil
}

// FindConfigFile locates an existing configuration file.
func FindConfigFile() (string, error) {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range configPaths {
		configFilePath := filepath.Join(path, "config.yaml")
		if _, err := os.Stat(configFilePath); err == nil {
			return configFilePath, nil
		}
	}

	return "", errors.Newf("config file not found").
		Category(errors.CategoryNotFound).
		Context("operation", "find-config-file").
		Build()
}

// NormalizeSubdivisions upper-cases country codes and subdivisions.
// Viper lower-cases map keys, so "DE: BW" arrives as "de".
func NormalizeSubdivisions(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for country, sub := range in {
		country = strings.ToUpper(strings.TrimSpace(country))
		sub = strings.ToUpper(strings.TrimSpace(sub))
		if country == "" || sub == "" {
			continue
		}
		out[country] = sub
	}
	return out
}
