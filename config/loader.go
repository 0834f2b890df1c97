package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderOption customizes Load.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	configFile string
	envFile    string
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.configFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.envFile = path }
}

// Load fills cfg from config.yml and the environment. Precedence, lowest to
// highest: YAML file, .env file, process environment. Environment keys map
// onto nested config keys with underscores as separators, so TOKEN_SECRET
// sets token.secret.
func Load(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	var o loaderOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.envFile == "" {
		o.envFile = findFirst(".env." + serviceName, ".env")
	}
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			fmt.Fprintf(os.Stderr, "[config] warning: failed to load %s: %v\n", o.envFile, err)
		}
	}

	v := viper.New()

	if o.configFile == "" {
		o.configFile = findFirst(
			fmt.Sprintf("cmd/%s/config.yml", serviceName),
			"config/config.yml",
			"config.yml",
		)
	}
	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", o.configFile, err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvVars(v)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal for service %s: %w", serviceName, err)
	}
	return nil
}

// bindEnvVars maps every UPPER_SNAKE environment variable onto a dotted
// config key so viper.Unmarshal picks it up without explicit BindEnv calls.
func bindEnvVars(v *viper.Viper) {
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}
		key := strings.ToLower(pair[0])
		if !strings.Contains(key, "_") {
			continue
		}
		// TOKEN_EXPIRY_SECONDS also maps to token.expiry_seconds.
		v.Set(strings.ReplaceAll(key, "_", "."), pair[1])
		if idx := strings.Index(key, "_"); idx > 0 {
			v.Set(key[:idx]+"."+key[idx+1:], pair[1])
		}
	}
}

func findFirst(paths ...string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
