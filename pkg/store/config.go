package store

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// ConfigPathEnv names an extra directory searched for .timepouch.yaml.
	ConfigPathEnv = "TIMEPOUCH_CONFIG_PATH"

	DefaultPath = "~/.timepouch"
)

type Config interface {
	// Address is the local store address handed to Open.
	Address() string
	// Remote is the address sync replicates with, empty when unset.
	Remote() string
	// Format is the configured display format, empty to pick by terminal.
	Format() string
	// File is the config file that was read, empty when none was found.
	File() string
}

// LoadConfig reads .timepouch.yaml from $TIMEPOUCH_CONFIG_PATH, the working
// directory or $HOME, layered under TIMEPOUCH_* environment variables.
func LoadConfig() (Config, error) {
	return loadConfig(viper.New())
}

func loadConfig(v *viper.Viper) (Config, error) {
	v.SetDefault("path", DefaultPath)
	v.SetDefault("remote", "")
	v.SetDefault("format", "")
	v.SetConfigName(".timepouch") // .yaml is implicit
	v.SetEnvPrefix("TIMEPOUCH")
	v.AutomaticEnv()

	if override := os.Getenv(ConfigPathEnv); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return &fileConfig{
		Path:       v.GetString("path"),
		RemotePath: v.GetString("remote"),
		Output:     v.GetString("format"),
		file:       v.ConfigFileUsed(),
	}, nil
}

type fileConfig struct {
	Path       string `json:"path"`
	RemotePath string `json:"remote"`
	Output     string `json:"format"`

	file string
}

func (f *fileConfig) Address() string { return f.Path }
func (f *fileConfig) Remote() string  { return f.RemotePath }
func (f *fileConfig) Format() string  { return f.Output }
func (f *fileConfig) File() string    { return f.file }
