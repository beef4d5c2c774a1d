// Package gitconfig reads and writes the INI-formatted ".git/config" file.
// It is a thin wrapper around gopkg.in/ini.v1, scoped to the handful of
// core.* keys this client cares about; anything else in the file is left
// untouched on write and ignored on read.
package gitconfig

import (
	"gopkg.in/ini.v1"
)

// WriteDefault creates a ".git/config" file at path with a minimal [core]
// section, the way `git init` does for a non-bare repository.
func WriteDefault(path string) error {
	cfg := ini.Empty()
	core, err := cfg.NewSection("core")
	if err != nil {
		return err
	}

	for key, value := range map[string]string{
		"repositoryformatversion": "0",
		"filemode":                "true",
		"bare":                    "false",
	} {
		if _, err := core.NewKey(key, value); err != nil {
			return err
		}
	}

	return cfg.SaveTo(path)
}

// ReadBare reads the core.bare key from the config file at path. A missing or
// malformed file is reported as (false, err); callers that treat config as
// purely informational may ignore the error and fall back to false.
func ReadBare(path string) (bool, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return false, err
	}
	return cfg.Section("core").Key("bare").MustBool(false), nil
}
