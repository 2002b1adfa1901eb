// Package main — settlectl, утилита командной строки для API шлюза.
//
// Использование:
//
//	settlectl [-api URL] [-token TOKEN] claims list|stats
//	settlectl claims track -result LIKELY <settlementId>
//	settlectl claims untrack <claimId>
//	settlectl claims status -confirmation ABC-1 <claimId> <STATUS>
//	settlectl settlements list [-search s] [-category c] [-limit n]
//	settlectl token -secret S -sub SUBJECT [-email E] [-ttl 1h]
//	settlectl events tail -amqp URL [-exchange claims] [-queue claims.audit]
//
// Адрес API по умолчанию вычисляется из SETTLEMENT_DOMAIN, токен берётся из SETTLEMENT_TOKEN.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(runWithSignals(os.Args[1:], os.Stdout, os.Stderr))
}

// runWithSignals выполняет команду до SIGINT/SIGTERM и возвращает код выхода.
// Обработчик сигналов снимается до возврата, os.Exit вызывается уже после.
func runWithSignals(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return run(ctx, args, stdout, stderr)
}
