package repository

import (
	"context"

	"github.com/safeops/YASE/domain/entity"
)

type EscalatableRepository interface {
	ListPending(context.Context, string) ([]entity.Escalatable, error)
	SaveEscalatable(context.Context, *entity.Escalatable) error
	// ConditionalUpdate は読み取り時のレベルを条件にした比較交換。
	// 条件不一致(他のスイープが先行した)は false, nil を返す
	ConditionalUpdate(ctx context.Context, id string, expectedLevel int, change entity.EscalationChange) (bool, error)
}

type ThresholdRepository interface {
	// 上書きが無ければ nil, nil
	ThresholdOverride(ctx context.Context, tenant string, bucket entity.Bucket) (*entity.SLAThresholdConfig, error)
}

type TenantRepository interface {
	Tenants(context.Context) ([]entity.Tenant, error)
	TenantByID(context.Context, string) (*entity.Tenant, error)
}

// Dispatcher はコミット済みのエスカレーションイベントを配送する。
// 配送失敗は呼び出し側でログされるのみで、状態は巻き戻さない
type Dispatcher interface {
	Send(context.Context, entity.EscalationEvent) error
}

type Repository interface {
	EscalatableRepository
	ThresholdRepository
	TenantRepository
}

type RepositoryFacade struct {
	EscalatableRepository
	ThresholdRepository
	TenantRepository
}

func NewRepository(escalatableRepository EscalatableRepository, thresholdRepository ThresholdRepository, tenantRepository TenantRepository) Repository {
	return RepositoryFacade{
		EscalatableRepository: escalatableRepository,
		ThresholdRepository:   thresholdRepository,
		TenantRepository:      tenantRepository,
	}
}
