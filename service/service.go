// service содержит ядро безопасности token-сервиса: выпуск пары
// access/refresh-токенов для аутентифицированного пользователя и
// проверку/разбор предъявленных токенов.
//
// Основные аспекты:
//   - Сервис не хранит состояние между вызовами: реестра выданных токенов нет,
//     доверие каждый раз выводится заново из подписи (stateless). Кэшировать
//     результат проверки нельзя — это сломало бы контракт при смене ключа.
//   - Ключ подписи декодируется один раз в New и далее неизменен; экземпляр
//     Service безопасен для конкурентного использования без блокировок.
//   - Ошибки возвращаются обёрнутыми sentinel-значениями ниже и далее маппятся
//     внешним транспортом на коды ответов (см. комментарии к переменным).
package service

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/ssuzyn/overthecam/token-service/config"
)

// minKeyLen — минимальная длина ключа подписи HMAC-SHA256: 256 бит.
const minKeyLen = 32

var (
	// ErrInvalidToken — токен некорректен по подписи/структуре/алгоритму.
	// Транспорт: codes.Unauthenticated (HTTP 401).
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — подпись корректна, но срок действия токена истёк.
	// Транспорт: codes.Unauthenticated (HTTP 401).
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidTokenSignature — вариант для RemainingValidity: невалидный
	// токен там не «гасится» в ноль, а возвращается вызывающему как явная
	// ошибка. Транспорт: codes.Unauthenticated (HTTP 401).
	ErrInvalidTokenSignature = errors.New("invalid token signature")
)

// Service выпускает и проверяет подписанные токены.
type Service struct {
	key []byte
	cfg config.TokenConfig
}

// New создаёт сервис: декодирует base64-секрет в ключ подписи и проверяет
// его пригодность для HMAC-SHA256. Ошибка здесь фатальна для процесса —
// без ключа сервис обслуживать запросы не может.
func New(cfg config.TokenConfig) (*Service, error) {
	const op = "service.New"

	if cfg.Secret == "" {
		return nil, fmt.Errorf("%s: token secret is empty", op)
	}

	key, err := base64.StdEncoding.DecodeString(cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("%s: decode token secret: %w", op, err)
	}

	if len(key) < minKeyLen {
		return nil, fmt.Errorf("%s: token secret is too short: %d bytes, need >= %d", op, len(key), minKeyLen)
	}

	return &Service{
		key: key,
		cfg: cfg,
	}, nil
}
