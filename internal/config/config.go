// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config resolves hook settings from, in increasing precedence,
// built-in defaults, the repository's .prnj-hooks.yaml, environment
// variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the repository-level config file, looked up at the work tree root.
const FileName = ".prnj-hooks.yaml"

// Keys understood by the loader.
const (
	KeyAutoAppend       = "auto_append"
	KeyAllowEmptyBranch = "allow_empty_branch"
	KeyMessageSource    = "commit_msg_source"
)

// Environment variables bound to keys.
const (
	EnvAutoAppend       = "PRNJ_BRANCH_COMMIT_MSG_AUTO_APPEND"
	EnvAllowEmptyBranch = "PRNJ_BRANCH_ALLOW_EMPTY_BRANCH"
	EnvMessageSource    = "PRE_COMMIT_COMMIT_MSG_SOURCE"
)

// Config holds the resolved settings.
type Config struct {
	// AutoAppend rewrites the message with missing identifiers before validating.
	AutoAppend bool
	// AllowEmptyBranch downgrades an unreadable branch name to a warning.
	AllowEmptyBranch bool
	// MessageSource is the commit message source reported by the pre-commit framework.
	MessageSource string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{AutoAppend: true}
}

type fileConfig struct {
	AutoAppend       *bool `yaml:"auto_append"`
	AllowEmptyBranch *bool `yaml:"allow_empty_branch"`
}

// Loader layers the config sources on a private viper instance.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a loader with defaults and environment bindings in place.
func NewLoader() *Loader {
	v := viper.New()
	d := Default()
	v.SetDefault(KeyAutoAppend, d.AutoAppend)
	v.SetDefault(KeyAllowEmptyBranch, d.AllowEmptyBranch)
	v.SetDefault(KeyMessageSource, d.MessageSource)

	_ = v.BindEnv(KeyAutoAppend, EnvAutoAppend)
	_ = v.BindEnv(KeyAllowEmptyBranch, EnvAllowEmptyBranch)
	_ = v.BindEnv(KeyMessageSource, EnvMessageSource)

	return &Loader{v: v}
}

// BindFlag lets a command-line flag override key when the user sets it.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return nil
	}
	if err := l.v.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("binding flag %s: %w", flag.Name, err)
	}
	return nil
}

// Load reads the config file at path, if it exists, and resolves every key.
// An empty path skips the file.
func (l *Loader) Load(path string) (Config, error) {
	if path != "" {
		fc, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		if fc.AutoAppend != nil {
			l.v.SetDefault(KeyAutoAppend, *fc.AutoAppend)
		}
		if fc.AllowEmptyBranch != nil {
			l.v.SetDefault(KeyAllowEmptyBranch, *fc.AllowEmptyBranch)
		}
	}

	return Config{
		AutoAppend:       toggle(l.v.GetString(KeyAutoAppend)),
		AllowEmptyBranch: enabled(l.v.GetString(KeyAllowEmptyBranch)),
		MessageSource:    strings.TrimSpace(l.v.GetString(KeyMessageSource)),
	}, nil
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig

	f, err := os.Open(path) //nolint:gosec // G304: path is the repository config file
	if errors.Is(err, os.ErrNotExist) {
		return fc, nil
	}
	if err != nil {
		return fc, fmt.Errorf("opening config %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fc, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return fc, nil
}

// enabled accepts only "1", "true", "yes" and "on". Overrides that relax
// checks stay off for any other value.
func enabled(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// toggle treats "0", "false", "no" and "off" as disabled and anything else as enabled.
// Unset environment values never reach here; viper falls back to the lower layers.
func toggle(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
