// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package resolve

import (
	"errors"
	"fmt"
	"os"

	"github.com/poiesic/resolvit/core"
	"github.com/poiesic/resolvit/match"
	"gopkg.in/yaml.v3"
)

// Config holds tuning parameters for address resolution.
type Config struct {
	// Weights maps field types to score multipliers. Types absent from the
	// table weigh 1.
	// Default: match.DefaultWeights()
	Weights match.Weights

	// MinScore is the minimum weighted score a candidate needs to appear in
	// results. Zero keeps every scored candidate.
	// Default: 500
	MinScore float64

	// AnchorCount is how many of the rarest query terms drive candidate
	// retrieval.
	// Default: 2
	AnchorCount int

	// CandidateFactor bounds retrieval: the candidate superset is capped at
	// CandidateFactor times the requested limit.
	// Default: 64
	CandidateFactor int

	// DefaultLimit is the result count for callers that do not choose one.
	// Resolve itself always requires an explicit limit.
	// Default: 10
	DefaultLimit int

	// MaxLimit is the largest per-call result limit Resolve accepts.
	// Default: 100
	MaxLimit int

	// MaxQueryBytes is the longest raw query Resolve accepts.
	// Default: 256
	MaxQueryBytes int
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights:         match.DefaultWeights(),
		MinScore:        500,
		AnchorCount:     2,
		CandidateFactor: 64,
		DefaultLimit:    10,
		MaxLimit:        100,
		MaxQueryBytes:   256,
	}
}

// Normalize fills unset fields from the defaults.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.Weights == nil {
		c.Weights = d.Weights
	}
	if c.AnchorCount <= 0 {
		c.AnchorCount = d.AnchorCount
	}
	if c.CandidateFactor <= 0 {
		c.CandidateFactor = d.CandidateFactor
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = d.DefaultLimit
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = d.MaxLimit
	}
	if c.MaxQueryBytes <= 0 {
		c.MaxQueryBytes = d.MaxQueryBytes
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.MinScore < 0 {
		return errors.New("resolve config: MinScore cannot be negative")
	}
	for t, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("resolve config: negative weight for field type %s", t)
		}
	}
	if c.DefaultLimit > c.MaxLimit {
		return errors.New("resolve config: DefaultLimit cannot exceed MaxLimit")
	}
	return nil
}

// fileConfig is the YAML shape of Config. MinScore is a pointer so an
// explicit zero, meaning no score floor, is distinguishable from an
// absent key.
type fileConfig struct {
	MinScore        *float64           `yaml:"min_score"`
	AnchorCount     int                `yaml:"anchor_count"`
	CandidateFactor int                `yaml:"candidate_factor"`
	DefaultLimit    int                `yaml:"default_limit"`
	MaxLimit        int                `yaml:"max_limit"`
	MaxQueryBytes   int                `yaml:"max_query_bytes"`
	Weights         map[string]float64 `yaml:"weights"`
}

// LoadConfig reads a Config from a YAML file, overlaying the file's values
// on the defaults. Weight keys are field type names: unit, number,
// street_name, street_type, locality, region, postcode.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if fc.MinScore != nil {
		cfg.MinScore = *fc.MinScore
	}
	if fc.AnchorCount > 0 {
		cfg.AnchorCount = fc.AnchorCount
	}
	if fc.CandidateFactor > 0 {
		cfg.CandidateFactor = fc.CandidateFactor
	}
	if fc.DefaultLimit > 0 {
		cfg.DefaultLimit = fc.DefaultLimit
	}
	if fc.MaxLimit > 0 {
		cfg.MaxLimit = fc.MaxLimit
	}
	if fc.MaxQueryBytes > 0 {
		cfg.MaxQueryBytes = fc.MaxQueryBytes
	}
	for name, weight := range fc.Weights {
		t, ok := core.ParseFieldType(name)
		if !ok {
			return nil, fmt.Errorf("config file %s: unknown field type %q in weights", path, name)
		}
		cfg.Weights[t] = weight
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
