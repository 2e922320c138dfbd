// Package config manages configuration for the cloudprep CLI.
// It uses Viper for unified configuration management from files and
// environment variables, and loads the API/role lists the reconcilers
// consume. Configuration is built once at startup and passed explicitly
// into every reconciler call.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	apperrors "github.com/cloudprep/cloudprep/internal/errors"

	"github.com/cloudprep/cloudprep/internal/constants"
)

// Config is the explicit configuration object for a preparation run.
// There is no hidden global state: everything the reconcilers need is here.
type Config struct {
	// ProjectID is the target Google Cloud project.
	ProjectID string `mapstructure:"project_id" validate:"required"`

	// DeployerPrincipal is the service-account email the configured roles
	// are granted to.
	DeployerPrincipal string `mapstructure:"deployer_principal" validate:"required,email"`

	// APIsFile and RolesFile are line-delimited list files, one entry per
	// line, order-preserving.
	APIsFile  string `mapstructure:"apis_file" validate:"required"`
	RolesFile string `mapstructure:"roles_file" validate:"required"`

	// PoliciesFile optionally points at a YAML manifest of org policies.
	// When empty the built-in default policy set applies.
	PoliciesFile string `mapstructure:"policies_file"`

	LogLevel string `mapstructure:"log_level"`

	// APIs to enable, Roles to grant, and Policies to enforce, in order.
	// Populated from the files above by Load; tests construct them directly.
	APIs     []string    `mapstructure:"-"`
	Roles    []string    `mapstructure:"-"`
	Policies []OrgPolicy `mapstructure:"-"`
}

var validate = validator.New()

// Options override environment-sourced values, typically from command-line
// flags. Empty fields defer to the environment.
type Options struct {
	ProjectID         string
	DeployerPrincipal string
	APIsFile          string
	RolesFile         string
	PoliciesFile      string
}

// Load builds the configuration from environment variables (CLOUDPREP_
// prefix; PROJECT_ID is also honored bare because the surrounding deploy
// tooling exports it that way) and reads the API and role list files.
func Load() (*Config, error) {
	return LoadWithOptions(Options{})
}

// LoadWithOptions is Load with explicit overrides applied before validation.
func LoadWithOptions(opts Options) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("CLOUDPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	applyOptions(&cfg, opts)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// The API and role lists are two genuinely distinct lists read from two
	// distinct files. Earlier tooling read one file into a variable and then
	// overwrote it with the second read; keeping the loads separate (and
	// locked in by tests) is deliberate.
	apis, err := ReadList(cfg.APIsFile)
	if err != nil {
		return nil, fmt.Errorf("error reading API list: %w", err)
	}
	roles, err := ReadList(cfg.RolesFile)
	if err != nil {
		return nil, fmt.Errorf("error reading role list: %w", err)
	}
	cfg.APIs = apis
	cfg.Roles = roles

	policies, err := LoadPolicies(cfg.PoliciesFile)
	if err != nil {
		return nil, fmt.Errorf("error loading policy manifest: %w", err)
	}
	cfg.Policies = policies

	slog.Debug("configuration loaded",
		"project_id", cfg.ProjectID,
		"apis", len(cfg.APIs),
		"roles", len(cfg.Roles),
		"policies", len(cfg.Policies))

	return &cfg, nil
}

// Validate checks that required configuration is present. Missing values are
// reported as MissingVariable errors so the process exits with code 2.
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return apperrors.ErrMissingVariable("CLOUDPREP_PROJECT_ID (or PROJECT_ID)", nil)
	}
	if c.DeployerPrincipal == "" {
		return apperrors.ErrMissingVariable("CLOUDPREP_DEPLOYER_PRINCIPAL", nil)
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// GetLogLevel returns the slog.Level from the string configuration.
// Defaults to INFO if the level string is invalid.
func (c *Config) GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func applyOptions(cfg *Config, opts Options) {
	if opts.ProjectID != "" {
		cfg.ProjectID = opts.ProjectID
	}
	if opts.DeployerPrincipal != "" {
		cfg.DeployerPrincipal = opts.DeployerPrincipal
	}
	if opts.APIsFile != "" {
		cfg.APIsFile = opts.APIsFile
	}
	if opts.RolesFile != "" {
		cfg.RolesFile = opts.RolesFile
	}
	if opts.PoliciesFile != "" {
		cfg.PoliciesFile = opts.PoliciesFile
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("apis_file", constants.DefaultAPIsFile)
	v.SetDefault("roles_file", constants.DefaultRolesFile)
	v.SetDefault("log_level", "INFO")
}

func bindEnvVars(v *viper.Viper) {
	// Bind all environment variables explicitly
	envVars := []string{
		"APIS_FILE",
		"DEPLOYER_PRINCIPAL",
		"LOG_LEVEL",
		"POLICIES_FILE",
		"PROJECT_ID",
		"ROLES_FILE",
	}

	for _, envVar := range envVars {
		configKey := strings.ToLower(envVar)
		if envVar == "PROJECT_ID" {
			// Accept both the prefixed and the bare form.
			_ = v.BindEnv(configKey, "CLOUDPREP_PROJECT_ID", "PROJECT_ID")
			continue
		}
		_ = v.BindEnv(configKey, "CLOUDPREP_"+envVar)
	}
}
