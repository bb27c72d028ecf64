package summarize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFileFormat(t *testing.T) {
	code := `# user helpers
import os

def get_user(user_id):
    return user_id

def list_users():
    return []

class UserService:
    pass
`

	got := File("users.py", code)
	want := "users.py appears to define core logic around: import os. " +
		"It contains approximately 1 classes, 2 functions, and 1 import statements."
	assert.Equal(t, want, got)
}

func TestFileIsDeterministic(t *testing.T) {
	code := "func main() {}\n"
	assert.Equal(t, File("main.go", code), File("main.go", code))
}

func TestFileCountsGoTypes(t *testing.T) {
	code := `package server

import "net/http"

type Handler struct{}

type Registry interface {
	Open(name string) error
}

func serve() {}
`

	got := File("server.go", code)
	assert.Contains(t, got, "2 classes")
	assert.Contains(t, got, "1 functions")
	assert.Contains(t, got, "1 import statements")
	assert.Contains(t, got, "core logic around: package server.")
}

func TestFirstCodeLineSkipsComments(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"hash comment", "# header\nx = 1\n", "x = 1"},
		{"slash comment", "// header\nlet x = 1;\n", "let x = 1;"},
		{"docstring", "\"\"\"doc\"\"\"\ndef f():\n", "def f():"},
		{"blank lines", "\n\n\nresult = 2\n", "result = 2"},
		{"all comments", "# one\n// two\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstCodeLine(tt.content))
		})
	}
}

func TestFirstCodeLineTruncates(t *testing.T) {
	long := strings.Repeat("a", 300)
	got := firstCodeLine(long + "\n")
	assert.Len(t, got, firstLineLimit)
}

func TestFirstCodeLineTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 300)
	got := firstCodeLine(long + "\n")

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, firstLineLimit, utf8.RuneCountInString(got))
}

func TestFileEmptyContent(t *testing.T) {
	got := File("empty.py", "")
	assert.Contains(t, got, "empty.py appears to define core logic around: .")
	assert.Contains(t, got, "0 classes, 0 functions, and 0 import statements")
}
