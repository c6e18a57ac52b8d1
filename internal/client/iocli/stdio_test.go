package iocli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Проверяем что NewStdio возвращает валидный объект
func TestNewStdio(t *testing.T) {
	stdio := NewStdio()
	assert.NotNil(t, stdio)
}

func TestStream_Print(t *testing.T) {
	var out bytes.Buffer
	s := NewStream(strings.NewReader(""), &out)

	s.Println("hello", "world")
	s.Printf("test %d %s", 1, "abc")
	_, err := s.Write([]byte("!"))
	require.NoError(t, err)

	assert.Equal(t, "hello world\ntest 1 abc!", out.String())
}

// Несколько чтений подряд не теряют буферизованный ввод
func TestStream_ReadInput(t *testing.T) {
	var out bytes.Buffer
	s := NewStream(strings.NewReader("  ana@example.com \nsecond\nlast"), &out)

	first, err := s.ReadInput("Email: ")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", first)

	second, err := s.ReadInput("> ")
	require.NoError(t, err)
	assert.Equal(t, "second", second)

	// последняя строка без перевода строки
	last, err := s.ReadInput("> ")
	require.NoError(t, err)
	assert.Equal(t, "last", last)

	_, err = s.ReadInput("> ")
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "Email: > > > ", out.String())
}

// Не терминал: пароль читается как строка
func TestStream_ReadPassword_NotTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	go func() {
		_, _ = w.Write([]byte("secret\n"))
		_ = w.Close()
	}()
	defer func() { _ = r.Close() }()

	var out bytes.Buffer
	s := NewStream(r, &out)

	password, err := s.ReadPassword("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "secret", password)
	assert.Equal(t, "Password: ", out.String())
}
