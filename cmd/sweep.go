package cmd

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/safeops/YASE/handler"
	"github.com/spf13/cobra"
)

// スイープを1回だけ実行して終了する。cron等の外部スケジューラ向け。
// 途中で中断されても次回実行が残りを拾うので安全に再開できる
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "run a single escalation sweep and exit",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		summary, err := handler.RunOnce(ctx, configPath)
		if err != nil {
			slog.Error("Failed to run sweep", slog.Any("error", err))
			os.Exit(1)
		}
		if err := json.NewEncoder(os.Stdout).Encode(summary); err != nil {
			slog.Error("Failed to encode sweep summary", slog.Any("error", err))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
