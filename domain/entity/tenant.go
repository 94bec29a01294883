package entity

type Tenant struct {
	ID            string              `mapstructure:"id" validate:"required"`
	Name          string              `mapstructure:"name" validate:"required"`
	Disabled      bool                `mapstructure:"disabled"`
	NotifyChannel string              `mapstructure:"notify_channel"`
	NotifyMention string              `mapstructure:"notify_mention"`
	Thresholds    []ThresholdOverride `mapstructure:"thresholds"`
}

// ThresholdOverride はテナントごとのSLA閾値上書き
type ThresholdOverride struct {
	Bucket             string `mapstructure:"bucket" validate:"required,oneof=severity priority"`
	Key                int    `mapstructure:"key" validate:"required,gte=1"`
	SLAThresholdConfig `mapstructure:",squash"`
}
