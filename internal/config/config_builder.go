package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
)

type configBuilder struct {
	// configs holds env and flag configs in the order they were added.
	configs []*StructuredConfig
	// jsonConfig is applied below configs regardless of when it was read.
	jsonConfig *StructuredConfig
	err        error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	sources := make([]*StructuredConfig, 0, len(b.configs)+1)
	if b.jsonConfig != nil {
		sources = append(sources, b.jsonConfig)
	}
	sources = append(sources, b.configs...)

	config := defaults()
	for _, cfg := range sources {
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, config.validate()
}

// withDotEnv loads a .env file from the working directory if one exists.
// Variables already present in the environment are not overwritten.
func (b *configBuilder) withDotEnv() *configBuilder {
	_ = godotenv.Load()
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	flags, err := parseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flags)
	return b
}

func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
		}
	}

	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.jsonConfig = jsonCfg

	return b
}
