package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/safeops/YASE/domain/entity"
	"github.com/safeops/YASE/domain/repository"
)

var timeNow = time.Now

// Sweeper は未完了エンティティを周期的に走査し、経過時間に応じて
// 警告→エスカレーション1→エスカレーション2へ進める。
// 各遷移は閾値ごとに1回だけ、スイープの遅延や重複実行があっても
// 重複発火しない
type Sweeper struct {
	repo        repository.Repository
	resolver    *Resolver
	dispatcher  repository.Dispatcher
	concurrency int
}

func NewSweeper(repo repository.Repository, resolver *Resolver, dispatcher repository.Dispatcher, concurrency int) *Sweeper {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Sweeper{
		repo:        repo,
		resolver:    resolver,
		dispatcher:  dispatcher,
		concurrency: concurrency,
	}
}

type Summary struct {
	SweepID           string    `json:"sweep_id"`
	StartedAt         time.Time `json:"started_at"`
	EntitiesProcessed int       `json:"entities_processed"`
	WarningsSent      int       `json:"warnings_sent"`
	EscalationsSent   int       `json:"escalations_sent"`
	Errors            int       `json:"errors"`
}

type tally struct {
	processed   atomic.Int64
	warnings    atomic.Int64
	escalations atomic.Int64
	errors      atomic.Int64
}

// Sweep は全テナントを1回走査する。テナント間は上限付きで並行に、
// テナント内は1件ずつ同期的に処理する
func (s *Sweeper) Sweep(ctx context.Context) (*Summary, error) {
	sweepID := uuid.NewString()
	startedAt := timeNow()

	tenants, err := s.repo.Tenants(ctx)
	if err != nil {
		return nil, err
	}

	var t tally
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	for _, tenant := range tenants {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(tenant entity.Tenant) {
			defer wg.Done()
			defer func() { <-sem }()
			s.sweepTenant(ctx, sweepID, tenant.ID, &t)
		}(tenant)
	}
	wg.Wait()

	summary := &Summary{
		SweepID:           sweepID,
		StartedAt:         startedAt,
		EntitiesProcessed: int(t.processed.Load()),
		WarningsSent:      int(t.warnings.Load()),
		EscalationsSent:   int(t.escalations.Load()),
		Errors:            int(t.errors.Load()),
	}
	slog.Info("sweep finished",
		slog.String("sweep_id", summary.SweepID),
		slog.Int("entities_processed", summary.EntitiesProcessed),
		slog.Int("warnings_sent", summary.WarningsSent),
		slog.Int("escalations_sent", summary.EscalationsSent),
		slog.Int("errors", summary.Errors),
	)
	return summary, nil
}

func (s *Sweeper) sweepTenant(ctx context.Context, sweepID, tenant string, t *tally) {
	escalatables, err := s.repo.ListPending(ctx, tenant)
	if err != nil {
		slog.Error("failed to list pending entities",
			slog.String("sweep_id", sweepID),
			slog.String("tenant", tenant),
			slog.Any("error", err))
		t.errors.Add(1)
		return
	}
	for i := range escalatables {
		// シャットダウン時は処理中のエンティティで打ち切る。
		// 残りは次回のスイープが拾う
		if ctx.Err() != nil {
			return
		}
		s.sweepEntity(ctx, sweepID, &escalatables[i], t)
	}
}

func (s *Sweeper) sweepEntity(ctx context.Context, sweepID string, e *entity.Escalatable, t *tally) {
	if !e.Pending() {
		return
	}
	t.processed.Add(1)

	now := timeNow()
	elapsed := now.Sub(e.ReferenceAt)
	thresholds := s.resolver.Resolve(ctx, e.Tenant, e.EffectiveBucket())

	change, ok := nextTransition(e, elapsed, thresholds, now)
	if !ok {
		return
	}

	committed, err := s.repo.ConditionalUpdate(ctx, e.ID, e.EscalationLevel, change)
	if err != nil {
		slog.Error("failed to update escalation state",
			slog.String("sweep_id", sweepID),
			slog.String("entity_id", e.ID),
			slog.String("tenant", e.Tenant),
			slog.Any("error", err))
		t.errors.Add(1)
		return
	}
	// 条件不一致は並行スイープに先を越されただけなのでエラー扱いしない
	if !committed {
		return
	}

	if change.WarningOnly {
		t.warnings.Add(1)
	} else {
		t.escalations.Add(1)
	}

	event := entity.EscalationEvent{
		EntityID:    e.ID,
		Tenant:      e.Tenant,
		Kind:        e.Kind,
		NewLevel:    change.NewLevel,
		WarningOnly: change.WarningOnly,
		Elapsed:     elapsed,
		TriggeredAt: now,
		SweepID:     sweepID,
	}
	if err := s.dispatcher.Send(ctx, event); err != nil {
		// 配送失敗でもコミット済みの遷移はそのまま。再送はしない
		slog.Error("failed to dispatch escalation event",
			slog.String("sweep_id", sweepID),
			slog.String("entity_id", e.ID),
			slog.String("tenant", e.Tenant),
			slog.Any("error", err))
		t.errors.Add(1)
	}
}

// nextTransition は閾値を高い方から評価して次の遷移を決める。
// スイープが複数閾値をまたいで遅延した場合は中間レベルを経由せず
// 最終レベルへ一度で進む
func nextTransition(e *entity.Escalatable, elapsed time.Duration, thresholds entity.SLAThresholdConfig, now time.Time) (entity.EscalationChange, bool) {
	switch {
	case elapsed >= thresholds.Escalation2After && e.EscalationLevel < 2:
		return entity.EscalationChange{NewLevel: 2, EscalatedAt: now}, true
	case elapsed >= thresholds.Escalation1After && e.EscalationLevel < 1:
		return entity.EscalationChange{NewLevel: 1, EscalatedAt: now}, true
	case elapsed >= thresholds.WarningAfter && e.EscalationLevel == 0 && e.WarningSentAt.IsZero():
		return entity.EscalationChange{NewLevel: 0, WarningOnly: true, WarningSentAt: now}, true
	}
	return entity.EscalationChange{}, false
}
