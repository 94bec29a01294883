package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/safeops/YASE/domain/entity"
	"github.com/spf13/viper"
)

func NewConfigRepository(path string) (*Config, error) {
	viper.SetConfigFile(path)

	viper.AutomaticEnv()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err := viper.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("read config error: %w", err)
	}

	var c Config
	err = viper.Unmarshal(&c)
	if err != nil {
		return nil, fmt.Errorf("unmarshal config error: %w", err)
	}
	valid := validator.New()
	if err = valid.Struct(c); err != nil {
		return nil, fmt.Errorf("validate config error: %w", err)
	}

	return &c, nil
}

type Config struct {
	TenantList       []entity.Tenant `mapstructure:"tenants" validate:"required,dive"`
	ListenAddr       string          `mapstructure:"listen_addr"`
	SweepInterval    time.Duration   `mapstructure:"sweep_interval"`
	SweepConcurrency int             `mapstructure:"sweep_concurrency" validate:"gte=0"`
}

func (c *Config) ListenAddrOrDefault() string {
	if c.ListenAddr == "" {
		return ":8080"
	}
	return c.ListenAddr
}

// スイープ周期。外部スケジューラを使わない場合の既定は30分
func (c *Config) SweepIntervalOrDefault() time.Duration {
	if c.SweepInterval <= 0 {
		return 30 * time.Minute
	}
	return c.SweepInterval
}

func (c *Config) SweepConcurrencyOrDefault() int {
	if c.SweepConcurrency <= 0 {
		return 4
	}
	return c.SweepConcurrency
}

func (c *Config) Tenants(_ context.Context) ([]entity.Tenant, error) {
	var tenants []entity.Tenant
	for _, tenant := range c.TenantList {
		if tenant.Disabled {
			continue
		}
		tenants = append(tenants, tenant)
	}
	return tenants, nil
}

func (c *Config) TenantByID(_ context.Context, id string) (*entity.Tenant, error) {
	for _, tenant := range c.TenantList {
		if tenant.ID == id {
			return &tenant, nil
		}
	}
	return nil, fmt.Errorf("tenant not found: %s", id)
}

// テナントの閾値上書きを取得。無ければ nil を返し、
// 妥当性の検証と既定値へのフォールバックは呼び出し側が行う
func (c *Config) ThresholdOverride(_ context.Context, tenant string, bucket entity.Bucket) (*entity.SLAThresholdConfig, error) {
	for _, t := range c.TenantList {
		if t.ID != tenant {
			continue
		}
		for _, o := range t.Thresholds {
			if o.Bucket == string(bucket.Kind) && o.Key == bucket.Key {
				cfg := o.SLAThresholdConfig
				return &cfg, nil
			}
		}
		return nil, nil
	}
	return nil, nil
}
