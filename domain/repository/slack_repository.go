package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Songmu/retry"
	ttlcache "github.com/jellydator/ttlcache/v3"
	"github.com/safeops/YASE/domain/entity"
	"github.com/safeops/YASE/presentation/blocks"
	"github.com/slack-go/slack"
)

var ErrSlackNotFound = fmt.Errorf("not found")

type SlackRepository struct {
	client        *slack.Client
	tenants       TenantRepository
	channelsCache *ttlcache.Cache[string, []slack.Channel]
}

func NewSlackRepository(client *slack.Client, tenants TenantRepository) *SlackRepository {
	r := &SlackRepository{
		client:        client,
		tenants:       tenants,
		channelsCache: ttlcache.New(ttlcache.WithTTL[string, []slack.Channel](time.Hour)),
	}
	go r.channelsCache.Start()

	// 失効時は自動で更新する
	r.channelsCache.OnEviction(func(ctx context.Context, _ ttlcache.EvictionReason, _ *ttlcache.Item[string, []slack.Channel]) {
		slog.Info("Refreshing channels cache")
		_, err := r.getChannels()
		if err != nil {
			slog.Error("Failed to refresh channels cache", slog.Any("err", err))
		}
	})
	return r
}

func (h *SlackRepository) getChannels() ([]slack.Channel, error) {
	cacheKey := "channels"
	if channels := h.channelsCache.Get(cacheKey); channels != nil {
		return channels.Value(), nil
	}
	nextCursor := ""
	channels := make([]slack.Channel, 0)
	for {
		cs, next, err := h.client.GetConversations(&slack.GetConversationsParameters{
			Limit:           1000,
			Cursor:          nextCursor,
			ExcludeArchived: true,
		})
		if err != nil {
			return nil, err
		}
		channels = append(channels, cs...)
		if next == "" {
			break
		}
		nextCursor = next
	}

	h.channelsCache.Set(cacheKey, channels, ttlcache.DefaultTTL)
	return channels, nil
}

func (h *SlackRepository) GetChannelByName(name string) (*slack.Channel, error) {
	channels, err := h.getChannels()
	if err != nil {
		return nil, err
	}
	for _, c := range channels {
		if c.Name == strings.TrimPrefix(name, "#") {
			return &c, nil
		}
	}
	return nil, ErrSlackNotFound
}

// Send はイベント1件をテナントの通知チャンネルへ投稿する。
// リトライはレートリミット対策の短い範囲に留め、最終的な失敗は
// 呼び出し側の責務に返す(スイーパーはログのみで再送しない)
func (h *SlackRepository) Send(ctx context.Context, event entity.EscalationEvent) error {
	tenant, err := h.tenants.TenantByID(ctx, event.Tenant)
	if err != nil {
		return fmt.Errorf("failed to resolve tenant %s: %w", event.Tenant, err)
	}
	if tenant.NotifyChannel == "" {
		return nil
	}

	channel, err := h.GetChannelByName(tenant.NotifyChannel)
	if err != nil {
		return fmt.Errorf("failed to get channel %s: %w", tenant.NotifyChannel, err)
	}

	var messageBlocks []slack.Block
	if event.WarningOnly {
		messageBlocks = blocks.EscalationWarning(event, tenant.NotifyMention)
	} else {
		messageBlocks = blocks.EscalationNotice(event, tenant.NotifyMention)
	}

	err = retry.Retry(3, 3*time.Second, func() error {
		_, _, err := h.client.PostMessage(channel.ID, slack.MsgOptionBlocks(messageBlocks...))
		if err != nil {
			slog.Warn("PostMessage", slog.Any("channelID", channel.ID), slog.Any("err", err))
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to post escalation message to %s: %w", tenant.NotifyChannel, err)
	}
	return nil
}
