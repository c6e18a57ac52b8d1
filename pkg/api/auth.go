package api

import "encoding/json"

// LoginRequest представляет запрос на аутентификацию сотрудника
type LoginRequest struct {
	Email    string `json:"email"`    // email сотрудника
	Password string `json:"password"` // пароль в открытом виде (только по TLS)
}

// LoginResponse хранит сырой ответ /employees/login.
// Сервер не фиксирует имена полей, поэтому токены извлекаются
// адаптером auth.ExtractTokens, а не через struct-теги.
type LoginResponse map[string]json.RawMessage

// RefreshResponse представляет ответ /employees/refresh
type RefreshResponse struct {
	AccessToken string `json:"access_token"` // новый access token
	Token       string `json:"token"`        // альтернативное имя поля
}

// RoleRef описывает вложенную роль в профиле сотрудника
type RoleRef struct {
	ID   *int   `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON принимает объект {id,name}, голую строку или число.
// Формат, которого бэкенд не обещает, дает пустую роль, а не ошибку.
func (r *RoleRef) UnmarshalJSON(data []byte) error {
	type plain RoleRef
	var obj plain
	if err := json.Unmarshal(data, &obj); err == nil {
		*r = RoleRef(obj)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*r = RoleRef{Name: name}
		return nil
	}
	var id int
	if err := json.Unmarshal(data, &id); err == nil {
		*r = RoleRef{ID: &id}
		return nil
	}
	*r = RoleRef{}
	return nil
}

// Profile представляет профиль текущего сотрудника.
// Неизвестные поля сохраняются в Raw для отображения.
type Profile struct {
	Role      *RoleRef       `json:"role,omitempty"`
	Raw       map[string]any `json:"-"`
	ID        int            `json:"id"`
	CompanyID int            `json:"company_id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Surname   string         `json:"surname,omitempty"`
	Email     string         `json:"email,omitempty"`
	ImageURL  string         `json:"img,omitempty"`
}

// UnmarshalJSON декодирует известные поля и сохраняет полный объект в Raw
func (p *Profile) UnmarshalJSON(data []byte) error {
	type plain Profile
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Profile(decoded)
	p.Raw = raw
	return nil
}

// ErrorResponse представляет ответ с ошибкой.
// Бэкенд использует то error, то msg.
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Msg     string `json:"msg,omitempty"`     // альтернативное поле
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// Text возвращает первое непустое сообщение в порядке error, msg, message
func (e ErrorResponse) Text() string {
	switch {
	case e.Error != "":
		return e.Error
	case e.Msg != "":
		return e.Msg
	default:
		return e.Message
	}
}
