package models

// TokenPair — пара токенов, выдаваемая при аутентификации.
//
// Описание:
//   - TokenType — фиксированная метка схемы авторизации (обычно "Bearer");
//   - AccessToken — короткоживущий JWT для доступа к API;
//   - RefreshToken — долгоживущий JWT для выпуска нового access-токена;
//   - AccessTokenExpiresIn — абсолютный момент истечения access-токена
//     в миллисекундах Unix (имя и единицы сохранены по контракту ответа);
//   - UserID/Nickname — денормализованные поля пользователя для удобства
//     клиента, чтобы не разбирать claims на его стороне.
type TokenPair struct {
	TokenType            string
	AccessToken          string
	RefreshToken         string
	AccessTokenExpiresIn int64
	UserID               int64
	Nickname             string
}
