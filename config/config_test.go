package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/facetopo/config"
)

func TestDefault(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 30.0, c.YellowAngle)
	assert.True(t, c.ContinuationEnabled())
	assert.True(t, c.CornerRuleEnabled())
	assert.True(t, c.AddEdges)
}

func TestNew_Options(t *testing.T) {
	c, err := config.New(
		config.WithYellowAngle(45),
		config.WithContinuationAngle(50),
		config.WithEdgeCornerAngle(180),
		config.WithSmoothingWeight(0.5),
		config.WithAddEdges(false),
		config.WithOverlapCheck(false),
		config.WithConeCheck(false),
	)
	require.NoError(t, err)
	assert.Equal(t, 45.0, c.YellowAngle)
	assert.False(t, c.ContinuationEnabled(), "continuation >= yellow disables the pass")
	assert.False(t, c.CornerRuleEnabled())
	assert.False(t, c.AddEdges)

	base, err := config.New(config.From(c), config.WithYellowAngle(10))
	require.NoError(t, err)
	assert.Equal(t, 0.5, base.SmoothingWeight)
	assert.Equal(t, 10.0, base.YellowAngle)

	bad := []config.Option{
		config.WithYellowAngle(0),
		config.WithContinuationAngle(-1),
		config.WithEdgeCornerAngle(181),
		config.WithGeometryToleranceFactor(0),
		config.WithSmoothingWeight(1.5),
		config.WithOverlapBoxExpansion(-0.1),
	}
	for _, opt := range bad {
		_, err := config.New(opt)
		assert.ErrorIs(t, err, config.ErrOptionViolation)
	}
}

func TestLoad(t *testing.T) {
	c, err := config.Load(strings.NewReader("yellow_angle: 40\nadd_edges: false\n"))
	require.NoError(t, err)
	assert.Equal(t, 40.0, c.YellowAngle)
	assert.False(t, c.AddEdges)
	assert.Equal(t, 20.0, c.ContinuationAngle, "unset keys keep defaults")

	c, err = config.Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)

	_, err = config.Load(strings.NewReader("no_such_key: 1\n"))
	assert.ErrorIs(t, err, config.ErrDecode)
	_, err = config.Load(strings.NewReader("smoothing_weight: 3\n"))
	assert.ErrorIs(t, err, config.ErrOptionViolation)
}

// TestYAML_RoundTrip writes a config to disk and loads it back.
func TestYAML_RoundTrip(t *testing.T) {
	want, err := config.New(config.WithYellowAngle(33), config.WithConeCheck(false))
	require.NoError(t, err)
	data, err := want.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "yellow_angle: 33")

	path := filepath.Join(t.TempDir(), "facetopo.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	got, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
