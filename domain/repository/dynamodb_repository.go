package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/guregu/dynamo/v2"
	"github.com/safeops/YASE/domain/entity"
)

var escalatablesTable = "escalatables"

func init() {
	if os.Getenv("DYNAMO_ESCALATABLES_TABLE") != "" {
		escalatablesTable = os.Getenv("DYNAMO_ESCALATABLES_TABLE")
	}
}

func NewDynamoDBRepository() (*DynamoDBRepository, error) {
	var db *dynamo.DB
	if os.Getenv("DYNAMO_LOCAL") != "" {
		cfg, err := config.LoadDefaultConfig(context.TODO(),
			config.WithRegion("dummy"),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "dummy")),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %v", err)
		}
		db = dynamo.New(cfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String("http://localhost:8000")
		},
		)

		err = setupDdbSchema(db)
		if err != nil {
			return nil, fmt.Errorf("failed to setup schema: %v", err)
		}
	} else {
		cfg, err := config.LoadDefaultConfig(context.TODO())
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %v", err)
		}
		db = dynamo.New(cfg)
	}

	return &DynamoDBRepository{db: db}, nil
}

func setupDdbSchema(db *dynamo.DB) error {
	t := db.Table(escalatablesTable)
	_, err := t.Describe().Run(context.TODO())
	if err != nil {

		input := db.CreateTable(escalatablesTable, entity.Escalatable{}).
			Provision(10, 10)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return input.Run(ctx)
	}
	return nil
}

type DynamoDBRepository struct {
	db *dynamo.DB
}

// 未完了ステータスのエンティティのみ取得
func (r *DynamoDBRepository) ListPending(ctx context.Context, tenant string) ([]entity.Escalatable, error) {
	var escalatables []entity.Escalatable
	err := r.db.Table(escalatablesTable).Scan().
		Filter("'tenant' = ?", tenant).
		Filter("('status' = ? OR 'status' = ?)", entity.StatusPendingScreening, entity.StatusPendingCompletion).
		All(ctx, &escalatables)
	if err != nil {
		return nil, err
	}
	return escalatables, nil
}

func (r *DynamoDBRepository) SaveEscalatable(ctx context.Context, escalatable *entity.Escalatable) error {
	return r.db.Table(escalatablesTable).Put(escalatable).Run(ctx)
}

// ConditionalUpdate は escalation_level を楽観ロックのキーにした条件付き更新。
// 警告のみの場合は warning_sent_at が未送信であることも条件に含める
func (r *DynamoDBRepository) ConditionalUpdate(ctx context.Context, id string, expectedLevel int, change entity.EscalationChange) (bool, error) {
	update := r.db.Table(escalatablesTable).Update("id", id).
		Set("escalation_level", change.NewLevel).
		If("'escalation_level' = ?", expectedLevel)

	if change.WarningOnly {
		update = update.
			Set("warning_sent_at", change.WarningSentAt).
			If("'warning_sent_at' = ?", time.Time{})
	}
	if !change.EscalatedAt.IsZero() {
		update = update.Set("escalated_at", change.EscalatedAt)
	}

	err := update.Run(ctx)
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
