package bank

import (
	"fmt"
	"os"

	"animation-quiz/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadFile reads and validates a YAML question bank.
func LoadFile(path string) (domain.Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Bank{}, err
	}
	return Parse(data)
}

// Parse decodes a YAML question bank and validates it.
func Parse(data []byte) (domain.Bank, error) {
	var b domain.Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return domain.Bank{}, fmt.Errorf("decode bank: %w", err)
	}
	if b.ID == "" {
		b.ID = DefaultID
	}
	if err := b.Validate(); err != nil {
		return domain.Bank{}, err
	}
	return b, nil
}
