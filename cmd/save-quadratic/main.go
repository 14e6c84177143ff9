// save-quadratic — демонстрация Sliced Average Variance Estimation.
//
// Генерирует синтетический квадратичный датасет, оценивает направления
// SAVE и строит график X·β̂₁ против y с подписями истинного и
// оценённого направлений.
//
// Использование:
//
//	save-quadratic [--seed N] [--method save|sir] [--output FILE] [--show] [--json]
//
// Без аргументов воспроизводит запуск с seed 123 и пишет save_quadratic.png.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shaiso/sdr/internal/cli"
	"github.com/shaiso/sdr/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracing(ctx, "save-quadratic")
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	}

	rootCmd := cli.NewRootCmd(version, cli.Deps{Logger: logger})
	runErr := rootCmd.ExecuteContext(ctx)

	// Сбрасываем спаны до выхода
	if err := shutdown(context.Background()); err != nil {
		logger.Warn("tracing shutdown failed", "error", err)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, "Error:", runErr)
		os.Exit(1)
	}
}
