package cfg

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const DefaultEnvPrefix = "SKYLINE"

type Option func(*loadState)

type loadState struct {
	sourceFile string
	configType string
	envPrefix  string
	optional   bool
	noEnv      bool
	defaults   map[string]any
}

func WithSourceFile(path string) Option {
	return func(s *loadState) { s.sourceFile = path }
}

func WithType(kind string) Option {
	return func(s *loadState) { s.configType = kind }
}

// WithOptional tolerates a missing source file.
func WithOptional() Option {
	return func(s *loadState) { s.optional = true }
}

func WithEnvPrefix(prefix string) Option {
	return func(s *loadState) { s.envPrefix = prefix }
}

func WithNoEnv() Option {
	return func(s *loadState) { s.noEnv = true }
}

// WithDefault registers a default. Keys without a default or file value are
// invisible to environment overrides, so every decoded key should have one.
func WithDefault(key string, value any) Option {
	return func(s *loadState) { s.defaults[key] = value }
}

func WithDefaults(values map[string]any) Option {
	return func(s *loadState) {
		for k, v := range values {
			s.defaults[k] = v
		}
	}
}

func Load(opts ...Option) (*viper.Viper, error) {
	state := loadState{
		envPrefix: DefaultEnvPrefix,
		defaults:  map[string]any{},
	}
	for _, opt := range opts {
		opt(&state)
	}
	return load(state)
}

func load(state loadState) (*viper.Viper, error) {
	v := viper.New()
	if !state.noEnv {
		if state.envPrefix != "" {
			v.SetEnvPrefix(state.envPrefix)
		}
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		v.AutomaticEnv()
	}
	for k, val := range state.defaults {
		v.SetDefault(k, val)
	}
	if state.sourceFile == "" {
		return v, nil
	}

	v.SetConfigFile(state.sourceFile)
	if state.configType != "" {
		v.SetConfigType(state.configType)
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if state.optional && (errors.As(err, &nf) || errors.Is(err, os.ErrNotExist)) {
			return v, nil
		}
		return nil, fmt.Errorf("cfg: read %s: %w", state.sourceFile, err)
	}
	return v, nil
}

// Decode unmarshals the subtree at key into T. An empty key decodes the root.
func Decode[T any](v *viper.Viper, key string) (T, error) {
	var out T
	if err := decode(v, key, &out); err != nil {
		return out, err
	}
	return out, nil
}

func decode(v *viper.Viper, key string, out any) error {
	var input any = v.AllSettings()
	if key != "" {
		input = lookup(v.AllSettings(), strings.Split(strings.ToLower(key), "."))
		if input == nil {
			return nil
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("cfg: decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("cfg: decode %q: %w", key, err)
	}
	return nil
}

func lookup(settings map[string]any, path []string) any {
	var cur any = settings
	for _, part := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[part]
		if !ok {
			return nil
		}
	}
	return cur
}

// Watch logs edits to the loaded config file. Values already decoded are not
// refreshed; components pick up changes on restart.
func Watch(v *viper.Viper, logger *zap.Logger, onChange ...func(fsnotify.Event)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		logger.Info("config file changed",
			zap.String("file", e.Name),
			zap.String("op", e.Op.String()),
		)
		for _, fn := range onChange {
			fn(e)
		}
	})
	v.WatchConfig()
}
