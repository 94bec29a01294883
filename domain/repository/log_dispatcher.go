package repository

import (
	"context"
	"log/slog"

	"github.com/safeops/YASE/domain/entity"
)

// LogDispatcher はSlackトークン未設定時に使う配送先。
// イベントをログに書くだけで常に成功する
type LogDispatcher struct{}

func NewLogDispatcher() LogDispatcher {
	return LogDispatcher{}
}

func (LogDispatcher) Send(_ context.Context, event entity.EscalationEvent) error {
	slog.Info("escalation event",
		slog.String("entity_id", event.EntityID),
		slog.String("tenant", event.Tenant),
		slog.String("kind", string(event.Kind)),
		slog.Int("new_level", event.NewLevel),
		slog.Bool("warning_only", event.WarningOnly),
		slog.Duration("elapsed", event.Elapsed),
		slog.String("sweep_id", event.SweepID),
	)
	return nil
}
