// Пакет auth — авторизация административных действий.
//
// Единственная реализация — статический общий токен (совместимость с
// исходным поведением). Обработчики зависят только от интерфейса
// Authorizer, поэтому замена на полноценную аутентификацию не
// затрагивает ни оркестратор, ни хранилище.
package auth

import "crypto/subtle"

// Authorizer проверяет предъявленный токен администратора.
type Authorizer interface {
	// Authorize возвращает true, если токен даёт административный доступ.
	Authorize(token string) bool
}

// StaticToken — Authorizer на основе статического общего секрета.
type StaticToken struct {
	token string
}

// NewStaticToken создаёт Authorizer со статическим токеном.
func NewStaticToken(token string) *StaticToken {
	return &StaticToken{token: token}
}

// Authorize сравнивает токен за постоянное время.
// Пустой предъявленный токен всегда отклоняется.
func (a *StaticToken) Authorize(token string) bool {
	if token == "" || a.token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) == 1
}

// Равенство секретов за постоянное время; используется и для
// кодового слова загрузки.
func SecretEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
