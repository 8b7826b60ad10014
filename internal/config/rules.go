package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"bazaar/internal/domain"
	"bazaar/internal/domain/entity"
	"bazaar/pkg/errcodes"
)

// LoadRules читает YAML-файл правил поверх entity.DefaultRules.
// Пустой путь означает правила по умолчанию.
func LoadRules(path string) (entity.Rules, error) {
	rules := entity.DefaultRules()

	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return entity.Rules{}, fmt.Errorf("os.ReadFile: %w", err)
	}

	return ParseRules(data)
}

func ParseRules(data []byte) (entity.Rules, error) {
	rules := entity.DefaultRules()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return entity.Rules{}, domain.WrapError(err, errcodes.InvalidRules, "failed to decode rules")
	}

	if err := rules.Validate(); err != nil {
		return entity.Rules{}, domain.WrapError(err, errcodes.InvalidRules, "invalid rules")
	}

	return rules, nil
}
