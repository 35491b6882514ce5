// Package config loads the suite's configuration: built-in defaults,
// then an optional YAML file, then USERKIT_* environment variables, each
// layer overriding the one before it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is consulted when USERKIT_CONFIG is unset. A missing
// config file is not an error; the defaults stand.
const DefaultFile = "/etc/userkit.yaml"

type Config struct {
	// Root is prepended to every file path below. It points the suite at
	// an alternate filesystem tree (a container mount, a test fixture)
	// without changing the individual paths.
	Root string `yaml:"root"`

	PasswdFile string `yaml:"passwd_file"`
	GroupFile  string `yaml:"group_file"`
	IssueFile  string `yaml:"issue_file"`
	MotdFile   string `yaml:"motd_file"`

	Sudo SudoConfig `yaml:"sudo"`
}

type SudoConfig struct {
	// Group whose members may elevate.
	Group string `yaml:"group"`

	// TicketDir holds per-user elevation tickets; empty disables the
	// ticket cache entirely.
	TicketDir        string `yaml:"ticket_dir"`
	TicketTTLSeconds int    `yaml:"ticket_ttl_seconds"`
	TicketSecret     string `yaml:"ticket_secret"`
}

// TicketTTL returns the ticket lifetime as a duration.
func (s SudoConfig) TicketTTL() time.Duration {
	return time.Duration(s.TicketTTLSeconds) * time.Second
}

func Default() Config {
	return Config{
		PasswdFile: "/etc/passwd",
		GroupFile:  "/etc/group",
		IssueFile:  "/etc/issue",
		MotdFile:   "/etc/motd",
		Sudo: SudoConfig{
			Group:            "sudo",
			TicketTTLSeconds: 300,
		},
	}
}

// Load builds the effective configuration. A .env file in the working
// directory is read first, best effort, without overriding variables
// already present in the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	path := os.Getenv("USERKIT_CONFIG")
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file, defaults stand.
	default:
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setString("USERKIT_ROOT", &cfg.Root)
	setString("USERKIT_PASSWD_FILE", &cfg.PasswdFile)
	setString("USERKIT_GROUP_FILE", &cfg.GroupFile)
	setString("USERKIT_ISSUE_FILE", &cfg.IssueFile)
	setString("USERKIT_MOTD_FILE", &cfg.MotdFile)
	setString("USERKIT_SUDO_GROUP", &cfg.Sudo.Group)
	setString("USERKIT_SUDO_TICKET_DIR", &cfg.Sudo.TicketDir)
	setString("USERKIT_SUDO_TICKET_SECRET", &cfg.Sudo.TicketSecret)
	if v, ok := os.LookupEnv("USERKIT_SUDO_TICKET_TTL_SECONDS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sudo.TicketTTLSeconds = n
		}
	}
}

// Path maps a configured file path under the root prefix. Absolute
// paths keep their meaning relative to the root; an empty root is the
// real filesystem.
func (c Config) Path(p string) string {
	if c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, strings.TrimPrefix(p, "/"))
}
