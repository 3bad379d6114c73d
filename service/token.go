package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ssuzyn/overthecam/token-service/models"
	"github.com/ssuzyn/overthecam/token-service/pkg/log"
	"github.com/ssuzyn/overthecam/token-service/pkg/redact"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims — фиксированный набор claims: userId/email/nickname + iat/exp.
// Access- и refresh-токены одной выдачи несут одинаковое содержимое и
// различаются только exp.
//
// AccessToken — слот для вложенного access-токена внутри refresh-токена;
// штатный путь выпуска его НЕ заполняет (унаследованная несостыковка
// исходного контракта, см. EmbeddedAccessToken).
type tokenClaims struct {
	UserID      int64  `json:"userId"`
	Email       string `json:"email"`
	Nickname    string `json:"nickname"`
	AccessToken string `json:"accessToken,omitempty"`
	jwt.RegisteredClaims
}

// IssueTokens выпускает пару access/refresh-токенов для пользователя.
// Чистая функция от (user, now, TTL из конфигурации): побочных эффектов,
// кроме использования ключа подписи, нет.
func (s *Service) IssueTokens(ctx context.Context, user models.User, now time.Time) (*models.TokenPair, error) {
	const op = "service.token.IssueTokens"

	lg := log.From(ctx)

	accessExpiresAt := now.Add(s.cfg.AccessTokenTTL)

	accessToken, err := s.signToken(user, now, accessExpiresAt)
	if err != nil {
		lg.Error("access_token_sign_failed",
			slog.String("op", op),
			slog.Int64("user_id", user.ID),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := s.signToken(user, now, now.Add(s.cfg.RefreshTokenTTL))
	if err != nil {
		lg.Error("refresh_token_sign_failed",
			slog.String("op", op),
			slog.Int64("user_id", user.ID),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("token_pair_issued",
		slog.Int64("user_id", user.ID),
		slog.String("email", redact.Email(user.Email)),
	)

	return &models.TokenPair{
		TokenType:            s.cfg.TokenType,
		AccessToken:          accessToken,
		RefreshToken:         refreshToken,
		AccessTokenExpiresIn: accessExpiresAt.UnixMilli(),
		UserID:               user.ID,
		Nickname:             user.Nickname,
	}, nil
}

// ReissueAccessToken выпускает только новый access-токен — для случая, когда
// refresh-токен уже проверен вызывающей стороной. Сам refresh-токен метод
// не проверяет и не отзывает: отзыв вне зоны ответственности сервиса.
func (s *Service) ReissueAccessToken(ctx context.Context, user models.User, now time.Time) (string, error) {
	const op = "service.token.ReissueAccessToken"

	signed, err := s.signToken(user, now, now.Add(s.cfg.AccessTokenTTL))
	if err != nil {
		log.From(ctx).Error("access_token_sign_failed",
			slog.String("op", op),
			slog.Int64("user_id", user.ID),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// signToken подписывает claims пользователя ключом сервиса (HS256).
func (s *Service) signToken(user models.User, issuedAt, expiresAt time.Time) (string, error) {
	claims := tokenClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Nickname: user.Nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.key)
}

// parseClaims — единственная граница доверия: проверяет подпись и декодирует
// claims. Три исхода: claims без ошибки; ErrTokenExpired (подпись корректна,
// exp в прошлом); ErrInvalidToken (всё остальное — подпись, структура,
// алгоритм, кодировка). Ошибки библиотеки наружу не выходят.
// Все операции чтения ниже построены поверх parseClaims и собственную
// проверку не реализуют.
func (s *Service) parseClaims(tokenStr string) (*tokenClaims, error) {
	const op = "service.token.parseClaims"

	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return s.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}

// RemainingValidity возвращает остаток срока действия токена.
//
// Контракт (намеренно асимметричен булевым методам ниже):
//   - валидный токен -> max(0, exp-now);
//   - просроченный токен -> 0 без ошибки (истечение — легитимное
//     терминальное состояние для этого запроса);
//   - любой иной дефект -> ErrInvalidTokenSignature, ошибка НЕ гасится.
func (s *Service) RemainingValidity(ctx context.Context, tokenStr string) (time.Duration, error) {
	const op = "service.token.RemainingValidity"

	claims, err := s.parseClaims(tokenStr)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return 0, nil
		}

		log.From(ctx).Error("remaining_validity_failed",
			slog.String("op", op),
			slog.String("token", redact.Token()),
			slog.String("err", err.Error()),
		)
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidTokenSignature)
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < 0 {
		return 0, nil
	}

	return remaining, nil
}

// UserID извлекает идентификатор пользователя из токена.
func (s *Service) UserID(ctx context.Context, tokenStr string) (int64, error) {
	const op = "service.token.UserID"

	claims, err := s.claimsForExtract(ctx, op, tokenStr)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return claims.UserID, nil
}

// Email извлекает e-mail пользователя из токена.
func (s *Service) Email(ctx context.Context, tokenStr string) (string, error) {
	const op = "service.token.Email"

	claims, err := s.claimsForExtract(ctx, op, tokenStr)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return claims.Email, nil
}

// Nickname извлекает никнейм пользователя из токена.
func (s *Service) Nickname(ctx context.Context, tokenStr string) (string, error) {
	const op = "service.token.Nickname"

	claims, err := s.claimsForExtract(ctx, op, tokenStr)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return claims.Nickname, nil
}

// claimsForExtract — общий путь методов-экстракторов: проверка через
// parseClaims плюс warn-лог. Ошибка уходит вызывающему — получить дефолтное
// значение вместо явного отказа он не должен.
func (s *Service) claimsForExtract(ctx context.Context, op, tokenStr string) (*tokenClaims, error) {
	claims, err := s.parseClaims(tokenStr)
	if err != nil {
		log.From(ctx).Warn("claim_extract_failed",
			slog.String("op", op),
			slog.String("token", redact.Token()),
			slog.String("err", err.Error()),
		)
		return nil, err
	}

	return claims, nil
}

// IsValid сообщает, корректен ли токен: подпись верна и срок не истёк.
// Ошибок не возвращает никогда — любой дефект это false.
func (s *Service) IsValid(tokenStr string) bool {
	_, err := s.parseClaims(tokenStr)

	return err == nil
}

// IsExpired сообщает, просрочен ли токен. True ТОЛЬКО для корректно
// подписанного токена с истёкшим exp; токен с битой подписью или мусор —
// false («не установлено, что просрочен»). Политика сохранена из исходного
// контракта намеренно, ужесточать её нельзя.
func (s *Service) IsExpired(tokenStr string) bool {
	_, err := s.parseClaims(tokenStr)

	return errors.Is(err, ErrTokenExpired)
}

// EmbeddedAccessToken извлекает вложенный access-токен из claims
// refresh-токена (ключ "accessToken"). Возвращает ("", false) при любом
// дефекте токена или отсутствии claim — ошибки наружу не уходят, причина
// пишется в лог для операторов.
//
// Штатный путь выпуска claim "accessToken" не заполняет — метод описывает
// контракт «на вырост» и в IssueTokens не вшит.
func (s *Service) EmbeddedAccessToken(ctx context.Context, tokenStr string) (string, bool) {
	const op = "service.token.EmbeddedAccessToken"

	claims, err := s.parseClaims(tokenStr)
	if err != nil {
		log.From(ctx).Warn("embedded_token_extract_failed",
			slog.String("op", op),
			slog.String("token", redact.Token()),
			slog.String("err", err.Error()),
		)
		return "", false
	}

	if claims.AccessToken == "" {
		return "", false
	}

	return claims.AccessToken, true
}
