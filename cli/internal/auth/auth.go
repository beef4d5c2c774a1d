package auth

import (
	"os"

	"github.com/tinygit/tinygit"
)

// Config holds authentication configuration
type Config struct {
	Token    string
	Username string
	Password string
}

// FromEnvironment reads authentication from environment variables.
// Priority: TINYGIT_TOKEN > GITHUB_TOKEN > GITLAB_TOKEN
func FromEnvironment() *Config {
	token := os.Getenv("TINYGIT_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		token = os.Getenv("GITLAB_TOKEN")
	}

	return &Config{
		Token:    token,
		Username: os.Getenv("TINYGIT_USERNAME"),
		Password: os.Getenv("TINYGIT_PASSWORD"),
	}
}

// Merge combines environment auth with command-line flags.
// Command-line flags take precedence over environment variables.
func (c *Config) Merge(flagToken, flagUsername, flagPassword string) {
	if flagToken != "" {
		c.Token = flagToken
	}
	if flagUsername != "" {
		c.Username = flagUsername
	}
	if flagPassword != "" {
		c.Password = flagPassword
	}
}

// ToOptions converts authentication config to tinygit transport options.
func (c *Config) ToOptions() []tinygit.Option {
	var opts []tinygit.Option

	if c.Token != "" {
		opts = append(opts, tinygit.WithTokenAuth(c.Token))
	} else if c.Username != "" && c.Password != "" {
		opts = append(opts, tinygit.WithBasicAuth(c.Username, c.Password))
	}

	return opts
}

// HasAuth returns true if any authentication is configured
func (c *Config) HasAuth() bool {
	return c.Token != "" || (c.Username != "" && c.Password != "")
}
