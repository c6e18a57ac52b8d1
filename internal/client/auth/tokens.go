package auth

import (
	"encoding/json"
	"strings"

	pkgapi "github.com/iudanet/staffdesk/pkg/api"
)

// Порядок имен полей в ответе login. Первый непустой выигрывает.
var (
	accessTokenFields  = []string{"token", "access_token", "accessToken", "jwt"}
	refreshTokenFields = []string{"refresh_token", "refreshToken"}
	userFields         = []string{"user", "employee"}
)

// Tokens результат разбора ответа login
type Tokens struct {
	User         *pkgapi.Profile // nil, если сервер не вернул профиль
	AccessToken  string
	RefreshToken string // "" - сервер не выдал refresh token
}

// ExtractTokens достает токены и профиль из ответа login.
// Без access token возвращает пустой Tokens и ok=false; ошибок формата не бывает.
func ExtractTokens(resp pkgapi.LoginResponse) (Tokens, bool) {
	var t Tokens
	t.AccessToken = firstString(resp, accessTokenFields)
	if t.AccessToken == "" {
		return Tokens{}, false
	}
	t.RefreshToken = firstString(resp, refreshTokenFields)

	for _, field := range userFields {
		raw, ok := resp[field]
		if !ok {
			continue
		}
		var user pkgapi.Profile
		if err := json.Unmarshal(raw, &user); err == nil && len(user.Raw) > 0 {
			t.User = &user
			break
		}
	}

	return t, true
}

// firstString возвращает первое строковое поле с осмысленным значением
func firstString(resp pkgapi.LoginResponse, fields []string) string {
	for _, field := range fields {
		raw, ok := resp[field]
		if !ok {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			continue
		}
		if usableToken(value) {
			return value
		}
	}
	return ""
}

// usableToken отсекает пустые строки и сериализованные "null"/"undefined"
func usableToken(value string) bool {
	v := strings.TrimSpace(value)
	return v != "" && v != "null" && v != "undefined"
}
