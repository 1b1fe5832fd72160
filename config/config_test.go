package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/litelayout/layout"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
density = 2.0
font_scale = 1.25
format = "svg"
fonts = ["/tmp/a.ttf"]

[preview]
cell_width = 4
cell_height = 8
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "svg", cfg.Format)
	assert.Equal(t, []string{"/tmp/a.ttf"}, cfg.Fonts)
	assert.Equal(t, Preview{CellWidth: 4, CellHeight: 8}, cfg.Preview)
	assert.Equal(t, layout.Density{Density: 2, FontScale: 1.25}, cfg.LayoutDensity())
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Load(writeFile(t, `format = "pdf"`))
	require.NoError(t, err)
	assert.Equal(t, Default().Preview, cfg.Preview)
	assert.Equal(t, layout.Density{}, cfg.LayoutDensity())
}

func TestLoadMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"unknown key":   `zoom = 2`,
		"bad format":    `format = "png"`,
		"negative":      `density = -1.0`,
		"bad cell size": "[preview]\ncell_width = 0",
		"syntax":        `format = `,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, content))
			assert.Error(t, err)
		})
	}
}
