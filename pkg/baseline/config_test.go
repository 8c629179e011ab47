package baseline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "governance.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"OWNER", "ORG_ADMIN"}, cfg.AdminRoles)
	assert.Equal(t, 365, cfg.AuditRetention.Days)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 5, cfg.Cache.TTLSeconds)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfigFile(t, `
adminRoles:
  - COMPLIANCE_LEAD
auditRetention:
  days: 90
cache:
  enabled: false
  maxSize: 64
  ttlSeconds: 30
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"COMPLIANCE_LEAD"}, cfg.AdminRoles)
	assert.Equal(t, 90, cfg.AuditRetention.Days)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 64, cfg.Cache.MaxSize)
	assert.Equal(t, 30, cfg.Cache.TTLSeconds)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfigFile(t, "auditRetention:\n  days: 30\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.AuditRetention.Days)
	assert.Equal(t, []string{"OWNER", "ORG_ADMIN"}, cfg.AdminRoles)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfigFile(t, "adminRoles: [unclosed\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigNegativeRetention(t *testing.T) {
	path := writeConfigFile(t, "auditRetention:\n  days: -1\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auditRetention.days")
}
