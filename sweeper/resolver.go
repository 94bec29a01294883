package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ttlcache "github.com/jellydator/ttlcache/v3"
	"github.com/safeops/YASE/domain/entity"
	"github.com/safeops/YASE/domain/repository"
)

// Resolver はテナント上書き→組み込み既定値の順でSLA閾値を解決する。
// 不正な上書きによるフォールバックのログは同一キーにつき
// 一定期間1回に抑える
type Resolver struct {
	repo           repository.ThresholdRepository
	fallbackLogged *ttlcache.Cache[string, struct{}]
}

func NewResolver(repo repository.ThresholdRepository) *Resolver {
	r := &Resolver{
		repo:           repo,
		fallbackLogged: ttlcache.New(ttlcache.WithTTL[string, struct{}](time.Hour)),
	}
	go r.fallbackLogged.Start()
	return r
}

func (r *Resolver) Resolve(ctx context.Context, tenant string, bucket entity.Bucket) entity.SLAThresholdConfig {
	override, err := r.repo.ThresholdOverride(ctx, tenant, bucket)
	if err != nil {
		r.logFallbackOnce(tenant, bucket, fmt.Errorf("threshold lookup failed: %w", err))
		return entity.DefaultThresholds(bucket)
	}
	// 上書きなしは正常系。既定値を使うがログは出さない
	if override == nil {
		return entity.DefaultThresholds(bucket)
	}
	if err := override.Validate(); err != nil {
		r.logFallbackOnce(tenant, bucket, err)
		return entity.DefaultThresholds(bucket)
	}
	return *override
}

func (r *Resolver) logFallbackOnce(tenant string, bucket entity.Bucket, cause error) {
	key := tenant + "/" + bucket.String()
	if r.fallbackLogged.Get(key) != nil {
		return
	}
	r.fallbackLogged.Set(key, struct{}{}, ttlcache.DefaultTTL)
	slog.Warn("falling back to default SLA thresholds",
		slog.String("tenant", tenant),
		slog.String("bucket", bucket.String()),
		slog.Any("cause", cause),
	)
}
