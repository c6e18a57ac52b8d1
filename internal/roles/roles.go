// Package roles derives the caller's privilege tier from the profile and
// the access token and gates features by allow-lists.
package roles

import (
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/staffdesk/pkg/api"
)

// Role один из четырех системных уровней доступа
type Role string

// Уровни по возрастанию привилегий
const (
	None     Role = ""
	Employee Role = "EMPLOYEE"
	HR       Role = "HR"
	Admin    Role = "ADMIN"
	OwnerDB  Role = "OWNERDB"
)

// ClaimSystemRole имя claim с ролью в payload access token
const ClaimSystemRole = "system_role"

// byID фиксированное соответствие role.id -> Role
var byID = map[int]Role{
	1: OwnerDB,
	2: Admin,
	3: HR,
	4: Employee,
}

var normalizer = strings.NewReplacer(" ", "", "-", "", "_", "")

// Normalize приводит произвольную строку роли к Role.
// Порядок проверок важен: "OWNERDB" проверяется раньше "ADMIN".
func Normalize(raw string) Role {
	s := normalizer.Replace(strings.ToUpper(strings.TrimSpace(raw)))
	switch {
	case s == "":
		return None
	case strings.Contains(s, "OWNERDB"):
		return OwnerDB
	case strings.Contains(s, "ADMIN"):
		return Admin
	case strings.Contains(s, "HR"), strings.Contains(s, "RRHH"), strings.Contains(s, "RECURSOS"):
		return HR
	case strings.Contains(s, "EMPLOYEE"), strings.Contains(s, "EMPLEADO"):
		return Employee
	default:
		return None
	}
}

// FromID возвращает роль по числовому id или None
func FromID(id int) Role {
	return byID[id]
}

// Derive вычисляет роль: role.name, затем role.id, затем claim
// system_role из access token. Никогда не паникует и не возвращает ошибку.
func Derive(user *api.Profile, accessToken string) Role {
	if user != nil && user.Role != nil {
		if r := Normalize(user.Role.Name); r != None {
			return r
		}
		if user.Role.ID != nil {
			if r := FromID(*user.Role.ID); r != None {
				return r
			}
		}
	}

	claims := DecodeClaims(accessToken)
	if raw, ok := claims[ClaimSystemRole].(string); ok {
		return Normalize(raw)
	}
	return None
}

// DecodeClaims декодирует payload JWT без проверки подписи.
// Подпись проверяет сервер; клиенту claims нужны только для отображения.
// Любой некорректный вход дает nil.
func DecodeClaims(token string) map[string]any {
	parts := strings.Split(token, ".")
	if len(parts) < 2 || parts[1] == "" {
		return nil
	}

	payload, err := jwt.NewParser(jwt.WithPaddingAllowed()).DecodeSegment(parts[1])
	if err != nil {
		return nil
	}

	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil
	}
	return claims
}

// IsAllowed сравнивает роль с allow-list без учета регистра.
// Пустая роль или пустой список всегда запрещают.
func IsAllowed(current Role, allowed []Role) bool {
	cur := Normalize(string(current))
	if cur == None || len(allowed) == 0 {
		return false
	}
	for _, a := range allowed {
		if Normalize(string(a)) == cur {
			return true
		}
	}
	return false
}

// AtLeast сообщает, не ниже ли current уровня min
func AtLeast(current, min Role) bool {
	r := rank(Normalize(string(current)))
	return r > 0 && r >= rank(min)
}

func rank(r Role) int {
	switch r {
	case Employee:
		return 1
	case HR:
		return 2
	case Admin:
		return 3
	case OwnerDB:
		return 4
	default:
		return 0
	}
}
