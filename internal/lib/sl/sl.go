// Package sl содержит вспомогательные функции для работы с логгером slog:
// единообразный вывод ошибок и безопасное логирование bearer-токенов.
package sl

import (
	"encoding/hex"
	"log/slog"

	"golang.org/x/crypto/blake2b"
)

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
//
// Пример:
//
//	log.Error("failed to resolve identity", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Token возвращает slog.Attr с отпечатком токена вместо самого токена.
// Отпечаток — первые 8 байт BLAKE2b-256 в hex, пустой токен логируется как "none".
func Token(token string) slog.Attr {
	if token == "" {
		return slog.String("token", "none")
	}
	sum := blake2b.Sum256([]byte(token))
	return slog.String("token", hex.EncodeToString(sum[:8]))
}
