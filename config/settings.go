package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Settings tune report content. They are read from the -settings file.
type Settings struct {
	Organization string `yaml:"organization"`
	// Currency is an ISO 4217 code used for money amounts.
	Currency string `yaml:"currency"`
	// Locale is a BCP 47 tag used for number separators.
	Locale string `yaml:"locale"`
	// UnitPrices maps material type to estimated unit price.
	UnitPrices map[string]float64 `yaml:"unit_prices"`
}

func DefaultSettings() Settings {
	return Settings{
		Currency:   "BRL",
		Locale:     "pt-BR",
		UnitPrices: map[string]float64{},
	}
}

// LoadSettings reads the settings file at path. An empty path or a missing
// file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("settings: %w", err)
	}
	if err = yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}

	if s.Locale != "" {
		if _, err = language.Parse(s.Locale); err != nil {
			return s, fmt.Errorf("settings %s: locale %q: %w", path, s.Locale, err)
		}
	}
	if s.Currency != "" {
		if _, err = currency.ParseISO(s.Currency); err != nil {
			return s, fmt.Errorf("settings %s: currency %q: %w", path, s.Currency, err)
		}
	}

	prices := make(map[string]float64, len(s.UnitPrices))
	for kind, price := range s.UnitPrices {
		if price < 0 {
			return s, fmt.Errorf("settings %s: negative unit price for %q", path, kind)
		}
		prices[strings.ToLower(strings.TrimSpace(kind))] = price
	}
	s.UnitPrices = prices
	return s, nil
}
