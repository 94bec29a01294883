package entity

import (
	"fmt"
	"time"
)

// BucketKind はSLA閾値テーブルの種別
type BucketKind string

const (
	// インシデント一次確認用(キーは重大度レベル)
	BucketSeverity BucketKind = "severity"
	// 是正処置用(キーは優先度ティア)
	BucketPriority BucketKind = "priority"
)

type Bucket struct {
	Kind BucketKind
	Key  int
}

func (b Bucket) String() string {
	return fmt.Sprintf("%s/%d", b.Kind, b.Key)
}

// SLAThresholdConfig は基準時刻からのオフセット3段
type SLAThresholdConfig struct {
	WarningAfter     time.Duration `mapstructure:"warning_after"`
	Escalation1After time.Duration `mapstructure:"escalation1_after"`
	Escalation2After time.Duration `mapstructure:"escalation2_after"`
}

// Validate は 0 < warning < escalation1 < escalation2 の順序を検証する
func (c SLAThresholdConfig) Validate() error {
	if c.WarningAfter <= 0 {
		return fmt.Errorf("warning_after must be positive: %s", c.WarningAfter)
	}
	if c.Escalation1After <= c.WarningAfter {
		return fmt.Errorf("escalation1_after %s must be greater than warning_after %s", c.Escalation1After, c.WarningAfter)
	}
	if c.Escalation2After <= c.Escalation1After {
		return fmt.Errorf("escalation2_after %s must be greater than escalation1_after %s", c.Escalation2After, c.Escalation1After)
	}
	return nil
}

// 重大度が高いほど短いオフセットを使う
var defaultSeverityThresholds = map[int]SLAThresholdConfig{
	5: {WarningAfter: 2 * time.Hour, Escalation1After: 4 * time.Hour, Escalation2After: 8 * time.Hour},
	4: {WarningAfter: 4 * time.Hour, Escalation1After: 8 * time.Hour, Escalation2After: 12 * time.Hour},
	3: {WarningAfter: 12 * time.Hour, Escalation1After: 24 * time.Hour, Escalation2After: 48 * time.Hour},
	2: {WarningAfter: 24 * time.Hour, Escalation1After: 48 * time.Hour, Escalation2After: 96 * time.Hour},
	1: {WarningAfter: 48 * time.Hour, Escalation1After: 96 * time.Hour, Escalation2After: 168 * time.Hour},
}

var defaultPriorityThresholds = map[int]SLAThresholdConfig{
	1: {WarningAfter: 24 * time.Hour, Escalation1After: 48 * time.Hour, Escalation2After: 72 * time.Hour},
	2: {WarningAfter: 48 * time.Hour, Escalation1After: 96 * time.Hour, Escalation2After: 168 * time.Hour},
	3: {WarningAfter: 96 * time.Hour, Escalation1After: 168 * time.Hour, Escalation2After: 336 * time.Hour},
}

// DefaultThresholds は組み込みのデフォルト閾値を返す。
// 未知のキーはそのテーブルで最も緩い設定に落とす
func DefaultThresholds(bucket Bucket) SLAThresholdConfig {
	switch bucket.Kind {
	case BucketPriority:
		if c, ok := defaultPriorityThresholds[bucket.Key]; ok {
			return c
		}
		return defaultPriorityThresholds[3]
	default:
		if c, ok := defaultSeverityThresholds[bucket.Key]; ok {
			return c
		}
		return defaultSeverityThresholds[1]
	}
}
