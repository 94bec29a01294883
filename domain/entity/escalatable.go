package entity

import (
	"fmt"
	"time"
)

// EscalatableKind は時限管理対象のワークフロー種別
type EscalatableKind string

const (
	KindIncidentScreening EscalatableKind = "incident_screening"
	KindCorrectiveAction  EscalatableKind = "corrective_action"
)

const (
	StatusPendingScreening  = "pending_screening"
	StatusPendingCompletion = "pending_completion"
)

// Escalatable は時限エスカレーション対象のエンティティ。
// レベルとタイムスタンプはスイーパーのみが更新し、ステータスは
// 所有側ワークフローが更新する
type Escalatable struct {
	ID              string               `json:"id" dynamo:"id,hash"`
	Tenant          string               `json:"tenant" dynamo:"tenant"`
	Kind            EscalatableKind      `json:"kind" dynamo:"kind"`
	Status          string               `json:"status" dynamo:"status"`
	BucketKey       int                  `json:"bucket_key" dynamo:"bucket_key"`
	Severity        SeverityLevel        `json:"severity" dynamo:"severity"`
	Injury          InjuryClassification `json:"injury" dynamo:"injury"`
	ERPActivated    bool                 `json:"erp_activated" dynamo:"erp_activated"`
	EventType       string               `json:"event_type" dynamo:"event_type"`
	EscalationLevel int                  `json:"escalation_level" dynamo:"escalation_level"`
	ReferenceAt     time.Time            `json:"reference_at" dynamo:"reference_at"`
	WarningSentAt   time.Time            `json:"warning_sent_at" dynamo:"warning_sent_at"`
	EscalatedAt     time.Time            `json:"escalated_at" dynamo:"escalated_at"`
}

// NewEscalatable は検証済みのエンティティを生成する。
// 不正なレコードはnullのまま流さずここで弾く
func NewEscalatable(id, tenant string, kind EscalatableKind, bucketKey int, referenceAt time.Time) (*Escalatable, error) {
	if id == "" {
		return nil, fmt.Errorf("escalatable id is required")
	}
	if tenant == "" {
		return nil, fmt.Errorf("escalatable tenant is required")
	}
	var status string
	switch kind {
	case KindIncidentScreening:
		status = StatusPendingScreening
	case KindCorrectiveAction:
		status = StatusPendingCompletion
	default:
		return nil, fmt.Errorf("unknown escalatable kind: %s", kind)
	}
	if bucketKey < 1 {
		return nil, fmt.Errorf("bucket key must be positive: %d", bucketKey)
	}
	if referenceAt.IsZero() {
		return nil, fmt.Errorf("reference instant is required")
	}
	return &Escalatable{
		ID:          id,
		Tenant:      tenant,
		Kind:        kind,
		Status:      status,
		BucketKey:   bucketKey,
		ReferenceAt: referenceAt,
	}, nil
}

// Pending はスイープ対象かどうか
func (e *Escalatable) Pending() bool {
	switch e.Kind {
	case KindIncidentScreening:
		return e.Status == StatusPendingScreening
	case KindCorrectiveAction:
		return e.Status == StatusPendingCompletion
	}
	return false
}

// EffectiveBucket は閾値解決に使うバケットを返す。
// インシデントは義務的最低重大度を下回る分類のまま放置されないよう、
// 選択値と最低値の大きい方で引く
func (e *Escalatable) EffectiveBucket() Bucket {
	if e.Kind == KindIncidentScreening {
		key := e.BucketKey
		if minimum, _ := MinimumSeverity(e.Injury, e.ERPActivated, e.EventType); int(minimum) > key {
			key = int(minimum)
		}
		return Bucket{Kind: BucketSeverity, Key: key}
	}
	return Bucket{Kind: BucketPriority, Key: e.BucketKey}
}

// EscalationChange はスイーパーが条件付き更新で書き込む差分
type EscalationChange struct {
	NewLevel      int
	WarningOnly   bool
	WarningSentAt time.Time
	EscalatedAt   time.Time
}

// EscalationEvent はコミット済み遷移ごとに1件だけ発行される通知要求。
// このサブシステムでは永続化しない
type EscalationEvent struct {
	EntityID    string          `json:"entity_id"`
	Tenant      string          `json:"tenant"`
	Kind        EscalatableKind `json:"kind"`
	NewLevel    int             `json:"new_level"`
	WarningOnly bool            `json:"warning_only"`
	Elapsed     time.Duration   `json:"elapsed"`
	TriggeredAt time.Time       `json:"triggered_at"`
	SweepID     string          `json:"sweep_id"`
}
