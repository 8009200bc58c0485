// SPDX-License-Identifier: MIT

// Package config holds the immutable run configuration of facetopo.
//
// A Config is a plain value: build it with New and functional options, or
// decode it from YAML with Load. Unset YAML keys keep their defaults and
// unknown keys are rejected. Angles are in degrees.
//
// Defaults
//
//	yellow_angle               30
//	continuation_angle         20
//	edge_corner_angle          60
//	geometry_tolerance_factor  1e8
//	smoothing_weight           0.2
//	add_edges                  true
//	overlap_check_enabled      true
//	cone_check_enabled         true
//	overlap_box_expansion      0.001
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Sentinel errors.
var (
	// ErrOptionViolation is returned when a value is outside its domain.
	ErrOptionViolation = errors.New("config: invalid option supplied")

	// ErrDecode is returned when YAML input cannot be decoded.
	ErrDecode = errors.New("config: decode failed")
)

// Config is the full set of tunables.
type Config struct {
	// YellowAngle is the dihedral angle above which an edge is a candidate.
	YellowAngle float64 `yaml:"yellow_angle"`
	// ContinuationAngle is the weaker threshold for extending chains;
	// values >= YellowAngle disable continuation.
	ContinuationAngle float64 `yaml:"continuation_angle"`
	// EdgeCornerAngle turns a degree-2 point into a line endpoint when the
	// line bends sharper than this; 180 disables the rule.
	EdgeCornerAngle float64 `yaml:"edge_corner_angle"`
	// GeometryToleranceFactor divides the bbox diagonal into the merge tolerance.
	GeometryToleranceFactor float64 `yaml:"geometry_tolerance_factor"`
	// SmoothingWeight is the neighbor weight of normal smoothing in [0,1];
	// the geometric weight is 1 - SmoothingWeight.
	SmoothingWeight float64 `yaml:"smoothing_weight"`
	// AddEdges makes the spiral pass insert feature edges instead of only
	// marking spiral points.
	AddEdges bool `yaml:"add_edges"`
	// OverlapCheckEnabled runs the overlap diagnostic in Engine.Run.
	OverlapCheckEnabled bool `yaml:"overlap_check_enabled"`
	// ConeCheckEnabled runs the spiral/cone pass in Engine.Run.
	ConeCheckEnabled bool `yaml:"cone_check_enabled"`
	// OverlapBoxExpansion grows triangle boxes by this fraction of their
	// diagonal before candidate search.
	OverlapBoxExpansion float64 `yaml:"overlap_box_expansion"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		YellowAngle:             30,
		ContinuationAngle:       20,
		EdgeCornerAngle:         60,
		GeometryToleranceFactor: 1e8,
		SmoothingWeight:         0.2,
		AddEdges:                true,
		OverlapCheckEnabled:     true,
		ConeCheckEnabled:        true,
		OverlapBoxExpansion:     0.001,
	}
}

// ContinuationEnabled reports whether the continuation pass runs.
func (c Config) ContinuationEnabled() bool { return c.ContinuationAngle < c.YellowAngle }

// CornerRuleEnabled reports whether the corner-angle rule applies.
func (c Config) CornerRuleEnabled() bool { return c.EdgeCornerAngle < 180 }

// Validate checks every field against its domain.
func (c Config) Validate() error {
	angle := func(name string, v float64, lo float64) error {
		if math.IsNaN(v) || v < lo || v > 180 {
			return fmt.Errorf("%w: %s must be in [%g,180] (%g)", ErrOptionViolation, name, lo, v)
		}
		return nil
	}
	if err := angle("yellow_angle", c.YellowAngle, 0); err != nil {
		return err
	}
	if c.YellowAngle == 0 {
		return fmt.Errorf("%w: yellow_angle must be positive", ErrOptionViolation)
	}
	if err := angle("continuation_angle", c.ContinuationAngle, 0); err != nil {
		return err
	}
	if err := angle("edge_corner_angle", c.EdgeCornerAngle, 0); err != nil {
		return err
	}
	if !(c.GeometryToleranceFactor > 0) || math.IsInf(c.GeometryToleranceFactor, 0) {
		return fmt.Errorf("%w: geometry_tolerance_factor must be positive (%g)", ErrOptionViolation, c.GeometryToleranceFactor)
	}
	if !(c.SmoothingWeight >= 0 && c.SmoothingWeight <= 1) {
		return fmt.Errorf("%w: smoothing_weight must be in [0,1] (%g)", ErrOptionViolation, c.SmoothingWeight)
	}
	if !(c.OverlapBoxExpansion >= 0) || math.IsInf(c.OverlapBoxExpansion, 0) {
		return fmt.Errorf("%w: overlap_box_expansion must be >= 0 (%g)", ErrOptionViolation, c.OverlapBoxExpansion)
	}
	return nil
}

// Load decodes YAML from r over the defaults and validates the result.
func Load(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadFile reads and decodes the YAML file at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("LoadFile: %w", err)
	}
	return Load(bytes.NewReader(data))
}

// YAML encodes c with the same keys Load accepts.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
