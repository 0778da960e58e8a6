// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dormnet/dormnet/lib/platform"
	"github.com/dormnet/dormnet/lib/secret"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "DORMNET_CONFIG"

// Config is the provisioner configuration.
type Config struct {
	// Platform overrides platform detection when set ("linux",
	// "windows", "macos").
	Platform string `yaml:"platform"`

	App     AppConfig     `yaml:"app"`
	Service ServiceConfig `yaml:"service"`
	Secrets SecretsConfig `yaml:"secrets"`
	Build   BuildConfig   `yaml:"build"`
	Systemd SystemdConfig `yaml:"systemd"`
	NSSM    NSSMConfig    `yaml:"nssm"`
	Launchd LaunchdConfig `yaml:"launchd"`
}

// AppConfig locates the application.
type AppConfig struct {
	// Dir is the application checkout. Relative paths are resolved
	// against the current directory.
	// Default: ../dormnet
	Dir string `yaml:"dir"`

	// EnvFile is the credential file.
	// Default: ${APP_DIR}/.env
	EnvFile string `yaml:"env_file"`

	// Receipt is the install receipt.
	// Default: ${APP_DIR}/.dormnet-receipt.yaml
	Receipt string `yaml:"receipt"`
}

// ServiceConfig describes the service the platform registrars create.
type ServiceConfig struct {
	// Name is the systemd unit name.
	// Default: dormnet
	Name string `yaml:"name"`

	// Description appears in the unit file.
	// Default: DormNet
	Description string `yaml:"description"`

	// Command is the binary the service manager runs, found on PATH
	// when not absolute.
	// Default: npm
	Command string `yaml:"command"`

	// Args follow Command.
	// Default: [start]
	Args []string `yaml:"args"`
}

// SecretsConfig configures the generated session secret.
type SecretsConfig struct {
	// SessionLength is the number of characters.
	// Default: 32
	SessionLength int `yaml:"session_length"`

	// Charset is the set of characters drawn from.
	// Default: A-Z, a-z, 0-9
	Charset string `yaml:"charset"`
}

// BuildConfig configures the application build.
type BuildConfig struct {
	// Tool is the build tool binary.
	// Default: npm
	Tool string `yaml:"tool"`

	// InstallArgs installs dependencies.
	// Default: [install]
	InstallArgs []string `yaml:"install_args"`

	// BuildArgs builds the application.
	// Default: [run, build]
	BuildArgs []string `yaml:"build_args"`
}

// SystemdConfig configures Linux registration.
type SystemdConfig struct {
	// UnitDir receives the unit file.
	// Default: /etc/systemd/system
	UnitDir string `yaml:"unit_dir"`

	// User runs the service. Empty means SUDO_USER, then the invoking
	// user.
	User string `yaml:"user"`
}

// NSSMConfig configures Windows registration.
type NSSMConfig struct {
	// ServiceName is the Windows service name.
	// Default: DormNet
	ServiceName string `yaml:"service_name"`

	// ScriptDir receives install_<name>_service.bat.
	// Default: the current directory
	ScriptDir string `yaml:"script_dir"`
}

// LaunchdConfig configures macOS registration.
type LaunchdConfig struct {
	// Label is the launchd job label.
	// Default: com.dormnet.app
	Label string `yaml:"label"`

	// AgentsDir receives the property list.
	// Default: ${HOME}/Library/LaunchAgents
	AgentsDir string `yaml:"agents_dir"`

	// StdoutPath and StderrPath receive the service's output.
	// Default: /tmp/<label>.out.log and /tmp/<label>.err.log
	StdoutPath string `yaml:"stdout_path"`
	StderrPath string `yaml:"stderr_path"`
}

// Default returns the built-in configuration. Path fields still
// contain variables until Expand runs.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Dir:     filepath.Join("..", "dormnet"),
			EnvFile: "${APP_DIR}/.env",
			Receipt: "${APP_DIR}/.dormnet-receipt.yaml",
		},
		Service: ServiceConfig{
			Name:        "dormnet",
			Description: "DormNet",
			Command:     "npm",
			Args:        []string{"start"},
		},
		Secrets: SecretsConfig{
			SessionLength: 32,
			Charset:       secret.AlphaNumeric,
		},
		Build: BuildConfig{
			Tool:        "npm",
			InstallArgs: []string{"install"},
			BuildArgs:   []string{"run", "build"},
		},
		Systemd: SystemdConfig{
			UnitDir: "/etc/systemd/system",
		},
		NSSM: NSSMConfig{
			ServiceName: "DormNet",
			ScriptDir:   ".",
		},
		Launchd: LaunchdConfig{
			Label:      "com.dormnet.app",
			AgentsDir:  "${HOME}/Library/LaunchAgents",
			StdoutPath: "/tmp/com.dormnet.app.out.log",
			StderrPath: "/tmp/com.dormnet.app.err.log",
		},
	}
}

// Load reads the file named by DORMNET_CONFIG, or returns Default when
// the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile reads configuration from path on top of Default. Fields the
// file omits keep their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// PlatformKind returns the configured platform override, or "" when
// the platform should be detected.
func (c *Config) PlatformKind() (platform.Kind, error) {
	if c.Platform == "" {
		return "", nil
	}
	return platform.Parse(c.Platform)
}

// Expand resolves App.Dir to an absolute path with symlinks evaluated
// and expands variables in every path field. The application directory
// must exist.
func (c *Config) Expand() error {
	return c.expand(resolveDir)
}

// ExpandAllowMissing is Expand for commands that only remove or inspect
// what an install left behind. A missing application directory is made
// absolute, with only its parent's symlinks resolved, so the
// credential file, receipt and service descriptors still get their
// paths after the operator has deleted the checkout.
func (c *Config) ExpandAllowMissing() error {
	return c.expand(func(path string) (string, error) {
		resolved, err := resolveDir(path)
		if !errors.Is(err, fs.ErrNotExist) {
			return resolved, err
		}
		absolute, err := filepath.Abs(path)
		if err != nil {
			return "", err
		}
		if parent, err := filepath.EvalSymlinks(filepath.Dir(absolute)); err == nil {
			return filepath.Join(parent, filepath.Base(absolute)), nil
		}
		return absolute, nil
	})
}

func (c *Config) expand(resolve func(string) (string, error)) error {
	appDir, err := resolve(expandVars(c.App.Dir, nil))
	if err != nil {
		return fmt.Errorf("app.dir: %w", err)
	}
	c.App.Dir = appDir

	vars := map[string]string{
		"APP_DIR": appDir,
		"HOME":    homeDir(),
	}

	c.App.EnvFile = absPath(expandVars(c.App.EnvFile, vars))
	c.App.Receipt = absPath(expandVars(c.App.Receipt, vars))
	c.Systemd.UnitDir = expandVars(c.Systemd.UnitDir, vars)
	c.NSSM.ScriptDir = absPath(expandVars(c.NSSM.ScriptDir, vars))
	c.Launchd.AgentsDir = expandVars(c.Launchd.AgentsDir, vars)
	c.Launchd.StdoutPath = expandVars(c.Launchd.StdoutPath, vars)
	c.Launchd.StderrPath = expandVars(c.Launchd.StderrPath, vars)
	return nil
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.PlatformKind(); err != nil {
		errs = append(errs, fmt.Errorf("platform: %w", err))
	}
	if c.App.Dir == "" {
		errs = append(errs, fmt.Errorf("app.dir is required"))
	}
	if c.App.EnvFile == "" {
		errs = append(errs, fmt.Errorf("app.env_file is required"))
	}
	if c.Service.Name == "" {
		errs = append(errs, fmt.Errorf("service.name is required"))
	}
	if c.Service.Command == "" {
		errs = append(errs, fmt.Errorf("service.command is required"))
	}
	if c.Secrets.SessionLength <= 0 {
		errs = append(errs, fmt.Errorf("secrets.session_length must be positive, got %d", c.Secrets.SessionLength))
	}
	if c.Secrets.Charset == "" {
		errs = append(errs, fmt.Errorf("secrets.charset must not be empty"))
	}
	if c.Build.Tool == "" {
		errs = append(errs, fmt.Errorf("build.tool is required"))
	}
	if c.Systemd.UnitDir == "" {
		errs = append(errs, fmt.Errorf("systemd.unit_dir is required"))
	}
	if c.NSSM.ServiceName == "" {
		errs = append(errs, fmt.Errorf("nssm.service_name is required"))
	}
	if strings.ContainsAny(c.NSSM.ServiceName, " \t\"%") {
		errs = append(errs, fmt.Errorf("nssm.service_name must not contain spaces, quotes or %%"))
	}
	if c.Launchd.Label == "" {
		errs = append(errs, fmt.Errorf("launchd.label is required"))
	}
	if c.Launchd.AgentsDir == "" {
		errs = append(errs, fmt.Errorf("launchd.agents_dir is required"))
	}

	return errors.Join(errs...)
}

// ServiceUser returns the user systemd runs the service as.
func (c *Config) ServiceUser() string {
	if c.Systemd.User != "" {
		return c.Systemd.User
	}
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		return sudoUser
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "root"
}

func resolveDir(path string) (string, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(absolute)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", resolved)
	}
	return resolved, nil
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	absolute, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absolute
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.Getenv("HOME")
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default}, looking in vars before
// the environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}
