package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load the costs section from a separate YAML (e.g. config/costs/*.yaml).
	// If both CostsFile and Costs are provided, Costs overrides CostsFile.
	CostsFile   string            `yaml:"costs_file"`
	Logging     LoggingConfig     `yaml:"logging"`
	Plotting    PlottingConfig    `yaml:"plotting"`
	Costs       CostsConfig       `yaml:"costs"`
	Electricity ElectricityConfig `yaml:"electricity"`
	Lines       LinesConfig       `yaml:"lines"`
	Links       LinksConfig       `yaml:"links"`
}

// LoggingConfig is passed through to the logger of each pipeline step.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

type PlottingConfig struct {
	// ConvTechs have their marginal costs tracked separately from capital costs.
	ConvTechs []string `yaml:"conv_techs"`
}

type CostsConfig struct {
	Year              int                `yaml:"year"`
	DiscountRate      float64            `yaml:"discountrate"`
	USD2013ToEUR2013  float64            `yaml:"USD2013_to_EUR2013"`
	CapitalCost       map[string]float64 `yaml:"capital_cost"`
	MarginalCost      map[string]float64 `yaml:"marginal_cost"`
	discountRateIsSet bool
}

type ElectricityConfig struct {
	MaxHours map[string]float64 `yaml:"max_hours"`
}

type LinesConfig struct {
	LengthFactor float64 `yaml:"length_factor"`
}

type LinksConfig struct {
	SimpleHVDCCosts bool `yaml:"simple_hvdc_costs"`
}

const (
	DefaultLogLevel     = "INFO"
	DefaultCostYear     = 2030
	DefaultDiscountRate = 0.07
	DefaultUSDToEUR     = 0.7532
	DefaultLengthFactor = 1.0
)

// Default returns a config with every default applied.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not apply defaults or validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.CostsFile != "" {
		costsPath := c.CostsFile
		if !filepath.IsAbs(costsPath) {
			// Prefer paths relative to the config file, fall back to cwd.
			cand := filepath.Join(filepath.Dir(path), costsPath)
			if _, err := os.Stat(cand); err == nil {
				costsPath = cand
			}
		}
		loaded, err := loadCostsFile(costsPath)
		if err != nil {
			return nil, err
		}
		c.Costs = MergeCosts(loaded, c.Costs)
	}
	return c, nil
}

// Parse decodes a YAML document without defaults or validation.
func Parse(raw []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	c.Costs.discountRateIsSet = hasKey(raw, "costs", "discountrate")
	return &c, nil
}

// ApplyDefaults fills zero-valued settings.
func (c *Config) ApplyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Costs.Year == 0 {
		c.Costs.Year = DefaultCostYear
	}
	// A discount rate of 0 is meaningful, so only default it when absent.
	if c.Costs.DiscountRate == 0 && !c.Costs.discountRateIsSet {
		c.Costs.DiscountRate = DefaultDiscountRate
	}
	if c.Costs.USD2013ToEUR2013 == 0 {
		c.Costs.USD2013ToEUR2013 = DefaultUSDToEUR
	}
	if c.Electricity.MaxHours == nil {
		c.Electricity.MaxHours = map[string]float64{"battery": 6, "H2": 168}
	}
	if c.Lines.LengthFactor == 0 {
		c.Lines.LengthFactor = DefaultLengthFactor
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Costs.DiscountRate < 0 {
		return errors.New("costs.discountrate must be >= 0")
	}
	if c.Costs.USD2013ToEUR2013 <= 0 {
		return errors.New("costs.USD2013_to_EUR2013 must be > 0")
	}
	if c.Lines.LengthFactor <= 0 {
		return errors.New("lines.length_factor must be > 0")
	}
	for tech, h := range c.Electricity.MaxHours {
		if h < 0 {
			return fmt.Errorf("electricity.max_hours.%s must be >= 0", tech)
		}
	}
	for _, t := range c.Plotting.ConvTechs {
		if strings.TrimSpace(t) == "" {
			return errors.New("plotting.conv_techs must not contain empty names")
		}
	}
	return nil
}

type costsFileWrapper struct {
	Costs CostsConfig `yaml:"costs"`
}

func loadCostsFile(path string) (CostsConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return CostsConfig{}, err
	}
	var w costsFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return CostsConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	w.Costs.discountRateIsSet = hasKey(raw, "costs", "discountrate")
	return w.Costs, nil
}

// MergeCosts overlays non-zero fields from override onto base.
// Override maps are merged key by key.
func MergeCosts(base, override CostsConfig) CostsConfig {
	out := base
	if override.Year != 0 {
		out.Year = override.Year
	}
	if override.DiscountRate != 0 || override.discountRateIsSet {
		out.DiscountRate = override.DiscountRate
		out.discountRateIsSet = true
	}
	if override.USD2013ToEUR2013 != 0 {
		out.USD2013ToEUR2013 = override.USD2013ToEUR2013
	}
	out.CapitalCost = mergeMap(base.CapitalCost, override.CapitalCost)
	out.MarginalCost = mergeMap(base.MarginalCost, override.MarginalCost)
	return out
}

func mergeMap(base, override map[string]float64) map[string]float64 {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]float64, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// hasKey reports whether the document sets section.key explicitly.
func hasKey(raw []byte, section, key string) bool {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return false
	}
	node, ok := doc[section]
	if !ok {
		return false
	}
	var sec map[string]yaml.Node
	if err := node.Decode(&sec); err != nil {
		return false
	}
	_, ok = sec[key]
	return ok
}
