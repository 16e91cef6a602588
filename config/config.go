// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/spf13/viper"

	"github.com/cardinalhq/recordkit/internal/fieldselect"
	"github.com/cardinalhq/recordkit/internal/iteration"
	"github.com/cardinalhq/recordkit/internal/label"
	"github.com/cardinalhq/recordkit/internal/record"
	"github.com/cardinalhq/recordkit/internal/source"
)

// Config aggregates configuration for the application.
type Config struct {
	Reader ReaderConfig  `mapstructure:"reader"`
	Image  ImageConfig   `mapstructure:"image"`
	Frames FramesConfig  `mapstructure:"frames"`
	Source source.Config `mapstructure:"source"`
	Log    LogConfig     `mapstructure:"log"`
}

// ReaderConfig controls traversal and field extraction.
type ReaderConfig struct {
	Shuffle bool  `mapstructure:"shuffle"`
	Seed    int64 `mapstructure:"seed"`
	// SeedKey, when set, replaces Seed with a hash of the key.
	SeedKey       string        `mapstructure:"seed_key"`
	Reshuffle     string        `mapstructure:"reshuffle"`
	LabelPosition int           `mapstructure:"label_position"`
	Fields        []FieldConfig `mapstructure:"fields"`
}

// FieldConfig is one selected field, given either as a dotted Field
// ("b.c") or as literal Path segments. Path segments are never split, so
// [a.b] selects a key that contains a dot.
type FieldConfig struct {
	Field   string   `mapstructure:"field"`
	Path    []string `mapstructure:"path"`
	Missing *string  `mapstructure:"missing"`
}

func (f FieldConfig) segments() ([]string, error) {
	switch {
	case f.Field != "" && len(f.Path) > 0:
		return nil, fmt.Errorf("field %q: set either field or path, not both", f.Field)
	case f.Field != "":
		return fieldselect.ParsePath(f.Field), nil
	case len(f.Path) > 0:
		return f.Path, nil
	}
	return nil, errors.New("field entry needs a field or a path")
}

type ImageConfig struct {
	Height   int `mapstructure:"height"`
	Width    int `mapstructure:"width"`
	Channels int `mapstructure:"channels"`
}

type FramesConfig struct {
	StartFrame  int  `mapstructure:"start_frame"`
	TotalFrames int  `mapstructure:"total_frames"`
	Rows        int  `mapstructure:"rows"`
	Columns     int  `mapstructure:"columns"`
	Ravel       bool `mapstructure:"ravel"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File, when set, receives a JSON copy of every log line.
	File string `mapstructure:"file"`
}

// DefaultConfig is the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Reader: ReaderConfig{
			Reshuffle:     iteration.ReshuffleAdvance.String(),
			LabelPosition: int(label.Last),
		},
		Image:  ImageConfig{Channels: 3},
		Frames: FramesConfig{Ravel: true},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads configuration from file and environment variables.
// Environment variables use the prefix "RECORDKIT" and the dot character
// in keys is replaced by an underscore, so "reader.seed" becomes
// "RECORDKIT_READER_SEED". When file is empty, recordkit.yaml in the working
// directory is used if present.
func Load(file string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("recordkit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("RECORDKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.Indirect(reflect.ValueOf(cfg))
	typ := val.Type()
	for i := range typ.NumField() {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(append([]string(nil), parts...), tag)
		switch f.Type.Kind() {
		case reflect.Struct:
			bindEnvs(v, val.Field(i).Interface(), key...)
		case reflect.Slice:
			// lists come from the config file only
		default:
			_ = v.BindEnv(strings.Join(key, "."))
		}
	}
}

// Selection builds the field selection described by Fields. Fields without
// a missing value fall back to fieldselect.DefaultMissingValue.
func (c ReaderConfig) Selection() (*fieldselect.Selection, error) {
	b := fieldselect.NewBuilder()
	for i, f := range c.Fields {
		path, err := f.segments()
		if err != nil {
			return nil, fmt.Errorf("reader.fields[%d]: %w", i, err)
		}
		if f.Missing == nil {
			b.AddField(path...)
		} else {
			b.AddFieldWithDefault(record.Text(*f.Missing), path...)
		}
	}
	return b.Build()
}

// Iteration returns the traversal options.
func (c ReaderConfig) Iteration() (iteration.Options, error) {
	policy, err := iteration.ParseReshufflePolicy(c.Reshuffle)
	if err != nil {
		return iteration.Options{}, err
	}
	seed := c.Seed
	if c.SeedKey != "" {
		seed = iteration.SeedFromString(c.SeedKey)
	}
	return iteration.Options{Shuffle: c.Shuffle, Seed: seed, Policy: policy}, nil
}

// Position returns the validated label position.
func (c ReaderConfig) Position() (label.Position, error) {
	p := label.Position(c.LabelPosition)
	if err := p.Validate(); err != nil {
		return 0, err
	}
	return p, nil
}

// SlogLevel parses Level. An empty level is info.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	return lvl, nil
}
