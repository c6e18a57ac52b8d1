package auth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgapi "github.com/iudanet/staffdesk/pkg/api"
)

func loginResponse(t *testing.T, body string) pkgapi.LoginResponse {
	t.Helper()
	var resp pkgapi.LoginResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return resp
}

func TestExtractTokens(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantAccess  string
		wantRefresh string
		wantUserID  int
		wantOK      bool
	}{
		{
			name:        "token and refresh_token",
			body:        `{"token":"A","refresh_token":"R","user":{"id":7}}`,
			wantAccess:  "A",
			wantRefresh: "R",
			wantUserID:  7,
			wantOK:      true,
		},
		{
			name:        "camelCase fields and employee",
			body:        `{"accessToken":"A2","refreshToken":"R2","employee":{"id":9}}`,
			wantAccess:  "A2",
			wantRefresh: "R2",
			wantUserID:  9,
			wantOK:      true,
		},
		{
			name:       "token wins over access_token",
			body:       `{"access_token":"second","token":"first"}`,
			wantAccess: "first",
			wantOK:     true,
		},
		{
			name:       "jwt as last fallback",
			body:       `{"jwt":"J"}`,
			wantAccess: "J",
			wantOK:     true,
		},
		{
			name:       "serialized null is skipped",
			body:       `{"token":"null","access_token":"real","refresh_token":"undefined"}`,
			wantAccess: "real",
			wantOK:     true,
		},
		{
			name:   "no access token",
			body:   `{"refresh_token":"R","user":{"id":1}}`,
			wantOK: false,
		},
		{
			name:   "non-string token",
			body:   `{"token":123}`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, ok := ExtractTokens(loginResponse(t, tt.body))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantAccess, tokens.AccessToken)
			assert.Equal(t, tt.wantRefresh, tokens.RefreshToken)
			if tt.wantUserID != 0 {
				require.NotNil(t, tokens.User)
				assert.Equal(t, tt.wantUserID, tokens.User.ID)
			}
		})
	}
}

func TestExtractTokens_NullUser(t *testing.T) {
	tokens, ok := ExtractTokens(loginResponse(t, `{"token":"A","user":null,"employee":{"id":3}}`))
	require.True(t, ok)
	require.NotNil(t, tokens.User)
	assert.Equal(t, 3, tokens.User.ID)
}

func TestExtractTokens_NoAccessTokenIsEmpty(t *testing.T) {
	// Без access token не отдаем ни refresh token, ни профиль
	tokens, ok := ExtractTokens(loginResponse(t, `{"refresh_token":"R","user":{"id":1,"name":"Ana"}}`))
	assert.False(t, ok)
	assert.Equal(t, Tokens{}, tokens)
}
