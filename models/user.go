package models

// User — данные аутентифицированного пользователя, необходимые для выпуска
// токенов. Сервис токенов пользователей не хранит и не загружает: структура
// приходит от внешнего слоя (хранилище пользователей) только на чтение.
type User struct {
	ID       int64
	Email    string
	Nickname string
}
