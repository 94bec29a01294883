package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/safeops/YASE/domain/repository"
	"github.com/safeops/YASE/sweeper"
	"github.com/slack-go/slack"
)

func newSweeper(configPath string) (*sweeper.Sweeper, *repository.Config, error) {
	cfgRepository, err := repository.NewConfigRepository(configPath)
	if err != nil {
		return nil, nil, err
	}

	dynamoRepository, err := repository.NewDynamoDBRepository()
	if err != nil {
		return nil, nil, err
	}

	repo := repository.NewRepository(dynamoRepository, cfgRepository, cfgRepository)

	var dispatcher repository.Dispatcher
	if os.Getenv("SLACK_BOT_TOKEN") != "" {
		webApi := slack.New(os.Getenv("SLACK_BOT_TOKEN"))
		authTest, authTestErr := webApi.AuthTest()
		if authTestErr != nil {
			return nil, nil, fmt.Errorf("SLACK_BOT_TOKEN is invalid: %w", authTestErr)
		}
		slog.Info("Bot ID", slog.String("bot_id", authTest.UserID))
		dispatcher = repository.NewSlackRepository(webApi, cfgRepository)
	} else {
		slog.Info("SLACK_BOT_TOKEN is not set, escalation events are logged only")
		dispatcher = repository.NewLogDispatcher()
	}

	resolver := sweeper.NewResolver(cfgRepository)
	return sweeper.NewSweeper(repo, resolver, dispatcher, cfgRepository.SweepConcurrencyOrDefault()), cfgRepository, nil
}

// RunOnce は1回だけスイープして終了する。外部スケジューラから
// バッチとして起動する場合の入り口
func RunOnce(ctx context.Context, configPath string) (*sweeper.Summary, error) {
	sw, _, err := newSweeper(configPath)
	if err != nil {
		return nil, err
	}
	return sw.Sweep(ctx)
}

// Handle はサーバーモードの入り口。スイープ周期のティッカーと
// 外部トリガー用のHTTPエンドポイントを起動する
func Handle(ctx context.Context, configPath string) error {
	sw, cfg, err := newSweeper(configPath)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(cfg.SweepIntervalOrDefault())
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := sw.Sweep(ctx); err != nil {
					slog.Error("Failed to run scheduled sweep", slog.Any("error", err))
				}
			}
		}
	}()

	sweepHandler := NewSweepHandler(sw)
	srv := &http.Server{
		Addr:    cfg.ListenAddrOrDefault(),
		Handler: sweepHandler.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown server", slog.Any("error", err))
		}
	}()

	slog.Info("Server started", slog.String("addr", cfg.ListenAddrOrDefault()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
