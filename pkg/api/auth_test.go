package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_Unmarshal(t *testing.T) {
	var p Profile
	err := json.Unmarshal([]byte(`{"id":7,"name":"Ana","img":"https://cdn/x.png","role":{"id":3,"name":"HR"},"dni":"123"}`), &p)
	require.NoError(t, err)

	assert.Equal(t, 7, p.ID)
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, "https://cdn/x.png", p.ImageURL)
	require.NotNil(t, p.Role)
	assert.Equal(t, "HR", p.Role.Name)
	require.NotNil(t, p.Role.ID)
	assert.Equal(t, 3, *p.Role.ID)
	// неизвестные поля сохраняются
	assert.Equal(t, "123", p.Raw["dni"])
}

func TestProfile_SystemRoleStaysRaw(t *testing.T) {
	var p Profile
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"system_role":"ADMIN"}`), &p))

	assert.Nil(t, p.Role)
	assert.Equal(t, "ADMIN", p.Raw["system_role"])
}

func TestRoleRef_Shapes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantID   *int
	}{
		{name: "object", input: `{"name":"admin"}`, wantName: "admin"},
		{name: "string", input: `"admin"`, wantName: "admin"},
		{name: "number", input: `2`, wantID: func() *int { v := 2; return &v }()},
		{name: "unexpected", input: `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r RoleRef
			require.NoError(t, json.Unmarshal([]byte(tt.input), &r))
			assert.Equal(t, tt.wantName, r.Name)
			assert.Equal(t, tt.wantID, r.ID)
		})
	}
}

func TestErrorResponse_Text(t *testing.T) {
	assert.Equal(t, "bad", ErrorResponse{Error: "bad", Msg: "other"}.Text())
	assert.Equal(t, "other", ErrorResponse{Msg: "other", Message: "m"}.Text())
	assert.Equal(t, "m", ErrorResponse{Message: "m"}.Text())
	assert.Empty(t, ErrorResponse{}.Text())
}
