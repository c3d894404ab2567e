package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestUpdateViperConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetDefault("server.address", ":8000")

	file := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, UpdateViperConfig("marketplace.fee", 100, file))

	bz, err := os.ReadFile(file)
	require.NoError(t, err)

	var written map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(bz, &written))
	assert.Equal(t, 100, written["marketplace"]["fee"])
	assert.Equal(t, ":8000", written["server"]["address"])
}
