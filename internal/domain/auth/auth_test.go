package auth

import "testing"

// TestStaticToken проверяет статический токен.
func TestStaticToken(t *testing.T) {
	a := NewStaticToken("секретный-токен")

	if !a.Authorize("секретный-токен") {
		t.Error("верный токен должен приниматься")
	}
	if a.Authorize("другой") {
		t.Error("неверный токен должен отклоняться")
	}
	if a.Authorize("") {
		t.Error("пустой токен должен отклоняться")
	}
}

// TestStaticToken_EmptyConfigured проверяет, что пустой настроенный
// токен никого не авторизует.
func TestStaticToken_EmptyConfigured(t *testing.T) {
	a := NewStaticToken("")

	if a.Authorize("") || a.Authorize("любой") {
		t.Error("пустой настроенный токен не должен давать доступ")
	}
}

// TestSecretEqual проверяет сравнение секретов.
func TestSecretEqual(t *testing.T) {
	if !SecretEqual("код", "код") {
		t.Error("одинаковые секреты должны совпадать")
	}
	if SecretEqual("код", "Код") {
		t.Error("разные секреты не должны совпадать")
	}
	if !SecretEqual("", "") {
		t.Error("два пустых секрета равны")
	}
}
