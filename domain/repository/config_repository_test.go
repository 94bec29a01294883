package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/safeops/YASE/domain/entity"
	"github.com/safeops/YASE/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yase.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewConfigRepository(t *testing.T) {
	path := writeConfig(t, `
listen_addr = ":9090"
sweep_interval = "15m"
sweep_concurrency = 8

[[tenants]]
id = "acme"
name = "Acme"
notify_channel = "hsse-alerts"
notify_mention = "here"

[[tenants.thresholds]]
bucket = "severity"
key = 3
warning_after = "6h"
escalation1_after = "12h"
escalation2_after = "16h"

[[tenants]]
id = "globex"
name = "Globex"
disabled = true
`)

	cfg, err := repository.NewConfigRepository(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddrOrDefault())
	assert.Equal(t, 15*time.Minute, cfg.SweepIntervalOrDefault())
	assert.Equal(t, 8, cfg.SweepConcurrencyOrDefault())

	ctx := context.Background()

	// 無効化されたテナントはスイープ対象から外れる
	tenants, err := cfg.Tenants(ctx)
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, "acme", tenants[0].ID)

	// 無効でもIDでは引ける(通知経路の解決用)
	globex, err := cfg.TenantByID(ctx, "globex")
	require.NoError(t, err)
	assert.True(t, globex.Disabled)

	_, err = cfg.TenantByID(ctx, "initech")
	assert.Error(t, err)
}

func TestConfigThresholdOverride(t *testing.T) {
	path := writeConfig(t, `
[[tenants]]
id = "acme"
name = "Acme"

[[tenants.thresholds]]
bucket = "severity"
key = 3
warning_after = "6h"
escalation1_after = "12h"
escalation2_after = "16h"
`)

	cfg, err := repository.NewConfigRepository(path)
	require.NoError(t, err)
	ctx := context.Background()

	override, err := cfg.ThresholdOverride(ctx, "acme", entity.Bucket{Kind: entity.BucketSeverity, Key: 3})
	require.NoError(t, err)
	require.NotNil(t, override)
	assert.Equal(t, 6*time.Hour, override.WarningAfter)
	assert.Equal(t, 12*time.Hour, override.Escalation1After)
	assert.Equal(t, 16*time.Hour, override.Escalation2After)

	// 上書きが無いバケットはnil
	override, err = cfg.ThresholdOverride(ctx, "acme", entity.Bucket{Kind: entity.BucketSeverity, Key: 4})
	require.NoError(t, err)
	assert.Nil(t, override)

	// 未知テナントもnil
	override, err = cfg.ThresholdOverride(ctx, "initech", entity.Bucket{Kind: entity.BucketSeverity, Key: 3})
	require.NoError(t, err)
	assert.Nil(t, override)
}

func TestNewConfigRepositoryDefaults(t *testing.T) {
	path := writeConfig(t, `
[[tenants]]
id = "acme"
name = "Acme"
`)

	cfg, err := repository.NewConfigRepository(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddrOrDefault())
	assert.Equal(t, 30*time.Minute, cfg.SweepIntervalOrDefault())
	assert.Equal(t, 4, cfg.SweepConcurrencyOrDefault())
}

func TestNewConfigRepositoryValidation(t *testing.T) {
	// nameが無いテナントは弾く
	path := writeConfig(t, `
[[tenants]]
id = "acme"
`)

	_, err := repository.NewConfigRepository(path)
	assert.Error(t, err)
}
