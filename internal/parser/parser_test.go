package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopLevelPython(t *testing.T) {
	source := []byte(`import os

def get_user(user_id):
    return {"id": user_id}

@decorator
def decorated():
    pass

class UserService:
    def create(self, name):
        return name
`)

	p, err := NewParser(LanguagePython)
	require.NoError(t, err)

	defs, err := p.TopLevel(source)
	require.NoError(t, err)
	require.Len(t, defs, 3)

	assert.Equal(t, Definition{Name: "get_user", Kind: DefFunction, StartLine: 3, EndLine: 4}, defs[0])
	// Decorated definitions span from the decorator line.
	assert.Equal(t, Definition{Name: "decorated", Kind: DefFunction, StartLine: 6, EndLine: 8}, defs[1])
	assert.Equal(t, "UserService", defs[2].Name)
	assert.Equal(t, DefClass, defs[2].Kind)
	assert.Equal(t, 10, defs[2].StartLine)
}

func TestTopLevelPythonSkipsNested(t *testing.T) {
	source := []byte(`def outer():
    def inner():
        pass
    return inner
`)

	p, err := NewParser(LanguagePython)
	require.NoError(t, err)

	defs, err := p.TopLevel(source)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "outer", defs[0].Name)
}

func TestTopLevelGo(t *testing.T) {
	source := []byte(`package server

type Handler struct{}

func (h *Handler) Serve() {}

func main() {}
`)

	p, err := NewParser(LanguageGo)
	require.NoError(t, err)

	defs, err := p.TopLevel(source)
	require.NoError(t, err)
	require.Len(t, defs, 3)

	assert.Equal(t, "Handler", defs[0].Name)
	assert.Equal(t, DefType, defs[0].Kind)
	assert.Equal(t, "Serve", defs[1].Name)
	assert.Equal(t, DefFunction, defs[1].Kind)
	assert.Equal(t, "main", defs[2].Name)
}

func TestTopLevelJavaScript(t *testing.T) {
	source := []byte(`function plain() {}

export function exported() {}

class Widget {
  render() {}
}
`)

	p, err := NewParser(LanguageJavaScript)
	require.NoError(t, err)

	defs, err := p.TopLevel(source)
	require.NoError(t, err)
	require.Len(t, defs, 3)

	assert.Equal(t, "plain", defs[0].Name)
	assert.Equal(t, DefFunction, defs[0].Kind)
	assert.Equal(t, "exported", defs[1].Name)
	assert.Equal(t, "Widget", defs[2].Name)
	assert.Equal(t, DefClass, defs[2].Kind)
}

func TestTopLevelNoDefinitions(t *testing.T) {
	p, err := NewParser(LanguagePython)
	require.NoError(t, err)

	defs, err := p.TopLevel([]byte("x = 1\ny = 2\n"))
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		lang Language
		ok   bool
	}{
		{"main.py", LanguagePython, true},
		{"app.jsx", LanguageJavaScript, true},
		{"index.tsx", LanguageTypeScript, true},
		{"server.go", LanguageGo, true},
		{"query.sql", "", false},
		{"Makefile", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			lang, ok := DetectLanguage(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.lang, lang)
		})
	}
}

func TestNewParserUnsupported(t *testing.T) {
	_, err := NewParser(Language("cobol"))
	assert.Error(t, err)
}
