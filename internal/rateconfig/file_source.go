package rateconfig

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

type fileDocument struct {
	Configs []RateConfig `yaml:"rate_configs"`
}

// LoadFile reads rate configs from a yaml file.
func LoadFile(path string) ([]RateConfig, error) {
	if path == "" {
		return nil, errors.New("rateconfig: empty file path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Configs, nil
}
