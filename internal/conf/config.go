package conf

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPath      = "/etc/propmerge/config.toml"
	DefaultDropInDir = "/etc/propmerge/config.toml.d/"
)

// defaultConfig contains the embedded default configuration file.
// This file is compiled into the binary and serves as the base layer
// of configuration before the main file and drop-in files are applied.
//
//go:embed default.toml
var defaultConfig string

// DirectiveKind identifies which setting a Directive carries.
type DirectiveKind int

const (
	DirectiveOverwrite DirectiveKind = iota
	DirectiveLoadFirst
	DirectiveFile
)

func (k DirectiveKind) String() string {
	switch k {
	case DirectiveOverwrite:
		return "overwrite"
	case DirectiveLoadFirst:
		return "load-first"
	case DirectiveFile:
		return "file"
	}
	return "unknown"
}

// Directive is one [properties] setting in the order it was read.
type Directive struct {
	Kind  DirectiveKind
	Index int
	Path  string
	Bool  bool
}

// Config represents the resolved configuration.
type Config struct {
	LogLevel  slog.Level
	Overwrite bool
	LoadFirst bool
	Files     map[int]string

	// Directives lists every [properties] setting of every layer in the
	// order it was read. Apply replays them.
	Directives []Directive
}

// Update applies non-nil values from a configDTO.
func (c *Config) Update(dto configDTO) {
	if dto.LogLevel != nil {
		switch *dto.LogLevel {
		case "DEBUG":
			c.LogLevel = slog.LevelDebug
		case "INFO":
			c.LogLevel = slog.LevelInfo
		case "WARN":
			c.LogLevel = slog.LevelWarn
		case "ERROR":
			c.LogLevel = slog.LevelError
		}
	}
	for _, d := range dto.Directives {
		switch d.Kind {
		case DirectiveOverwrite:
			c.Overwrite = d.Bool
		case DirectiveLoadFirst:
			c.LoadFirst = d.Bool
		case DirectiveFile:
			if c.Files == nil {
				c.Files = make(map[int]string)
			}
			c.Files[d.Index] = d.Path
		}
		c.Directives = append(c.Directives, d)
	}
}

// ConfigSource orchestrates loading configuration from multiple sources.
// See the Read method.
type ConfigSource struct {
	Path      string
	DropInDir string
}

// DefaultSource returns the ConfigSource for the system-wide configuration.
func DefaultSource() *ConfigSource {
	return &ConfigSource{Path: DefaultPath, DropInDir: DefaultDropInDir}
}

// Read loads and returns the complete Config by merging all layers:
// 1. Embedded defaults
// 2. Main configuration file
// 3. Drop-in files
func (cs *ConfigSource) Read() (Config, error) {
	resolved := Config{}

	dto, err := parseConfigDTO(defaultConfig)
	if err != nil {
		slog.Error("failed to parse embedded defaults", "error", err)
		return resolved, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}
	resolved.Update(dto)

	data, err := os.ReadFile(cs.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			return resolved, fmt.Errorf("failed to load %s: %w", cs.Path, err)
		}
	} else {
		mainDTO, err := parseConfigDTO(string(data))
		if err != nil {
			// Existing but malformed file should result in failure.
			return resolved, fmt.Errorf("failed to parse %s: %w", cs.Path, err)
		}
		resolved.Update(mainDTO)
	}

	dropInDTOs, err := cs.parseDropInFiles()
	if err != nil {
		slog.Error("failed to load drop-in files", "error", err, "dir", cs.DropInDir)
		return resolved, err
	}
	for _, dropInDTO := range dropInDTOs {
		resolved.Update(dropInDTO)
	}

	return resolved, nil
}

type configDTO struct {
	LogLevel   *string        `toml:"log-level"`
	Properties *propertiesDTO `toml:"properties"`

	// Directives is derived from the decoded [properties] table using the
	// key order recorded in toml.MetaData.
	Directives []Directive `toml:"-"`
}

type propertiesDTO struct {
	Overwrite *bool             `toml:"overwrite"`
	LoadFirst *bool             `toml:"load-first"`
	Files     map[string]string `toml:"file"`
}

// parseConfigDTO parses a TOML string into a configDTO.
func parseConfigDTO(data string) (configDTO, error) {
	var dto configDTO

	md, err := toml.Decode(data, &dto)
	if err != nil {
		return dto, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if dto.Properties == nil {
		return dto, nil
	}

	for _, key := range md.Keys() {
		if len(key) < 2 || key[0] != "properties" {
			continue
		}
		switch {
		case len(key) == 2 && key[1] == "overwrite":
			dto.Directives = append(dto.Directives, Directive{Kind: DirectiveOverwrite, Bool: *dto.Properties.Overwrite})
		case len(key) == 2 && key[1] == "load-first":
			dto.Directives = append(dto.Directives, Directive{Kind: DirectiveLoadFirst, Bool: *dto.Properties.LoadFirst})
		case len(key) == 3 && key[1] == "file":
			index, err := strconv.Atoi(key[2])
			if errors.Is(err, strconv.ErrRange) {
				slog.Warn("file index out of range, not set", "key", key.String())
				continue
			}
			if err != nil {
				return dto, fmt.Errorf("invalid file index %q: %w", key.String(), err)
			}
			dto.Directives = append(dto.Directives, Directive{
				Kind:  DirectiveFile,
				Index: index,
				Path:  dto.Properties.Files[key[2]],
			})
		}
	}

	return dto, nil
}

// findDropInFiles finds and returns sorted paths to drop-in configuration files.
// Returns nil if the drop-in directory doesn't exist (not an error).
func (cs *ConfigSource) findDropInFiles() ([]string, error) {
	if _, err := os.Stat(cs.DropInDir); os.IsNotExist(err) {
		return nil, nil
	}

	entries, err := os.ReadDir(cs.DropInDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read drop-in directory %s: %w", cs.DropInDir, err)
	}

	var filenames []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".toml") {
			filenames = append(filenames, filepath.Join(cs.DropInDir, entry.Name()))
		}
	}

	sort.Strings(filenames)

	return filenames, nil
}

// parseDropInFiles loads .toml files.
func (cs *ConfigSource) parseDropInFiles() ([]configDTO, error) {
	paths, err := cs.findDropInFiles()
	if err != nil {
		return nil, err
	}

	var dtos []configDTO
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		dto, err := parseConfigDTO(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		dtos = append(dtos, dto)
	}

	return dtos, nil
}
