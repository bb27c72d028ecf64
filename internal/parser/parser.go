// Package parser provides tree-sitter based parsing for extracting
// top-level definitions from source code.
package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language represents a supported programming language.
type Language string

const (
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageGo         Language = "go"
)

// DefinitionKind represents the type of a top-level definition.
type DefinitionKind string

const (
	DefFunction DefinitionKind = "function"
	DefClass    DefinitionKind = "class"
	DefType     DefinitionKind = "type"
)

// Definition is a top-level function or class definition. Line numbers are
// 1-based and span the whole declaration, decorators included.
type Definition struct {
	Name      string         `json:"name"`
	Kind      DefinitionKind `json:"kind"`
	StartLine int            `json:"start_line"`
	EndLine   int            `json:"end_line"`
}

// Parser wraps tree-sitter for a specific language.
type Parser struct {
	language Language
	parser   *sitter.Parser
	lang     *sitter.Language
}

// NewParser creates a parser for the given language.
func NewParser(lang Language) (*Parser, error) {
	p := sitter.NewParser()

	var l *sitter.Language
	switch lang {
	case LanguagePython:
		l = getPythonLanguage()
	case LanguageJavaScript, LanguageTypeScript:
		l = getJavaScriptLanguage()
	case LanguageGo:
		l = getGoLanguage()
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	p.SetLanguage(l)

	return &Parser{
		language: lang,
		parser:   p,
		lang:     l,
	}, nil
}

// TopLevel parses source code and extracts its top-level definitions.
func (p *Parser) TopLevel(source []byte) ([]Definition, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	switch p.language {
	case LanguagePython:
		return topLevelPython(tree.RootNode(), source), nil
	case LanguageJavaScript, LanguageTypeScript:
		return topLevelJavaScript(tree.RootNode(), source), nil
	case LanguageGo:
		return topLevelGo(tree.RootNode(), source), nil
	default:
		return nil, fmt.Errorf("extraction not implemented for: %s", p.language)
	}
}

// DetectLanguage determines language from file extension.
func DetectLanguage(filePath string) (Language, bool) {
	switch {
	case hasExtension(filePath, ".py"):
		return LanguagePython, true
	case hasExtension(filePath, ".js", ".jsx"):
		return LanguageJavaScript, true
	case hasExtension(filePath, ".ts", ".tsx"):
		return LanguageTypeScript, true
	case hasExtension(filePath, ".go"):
		return LanguageGo, true
	default:
		return "", false
	}
}

func hasExtension(path string, exts ...string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Helper functions shared by the language extractors.

func findChild(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

func nodeContent(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

func nodeLines(node *sitter.Node) (start, end int) {
	return int(node.StartPoint().Row) + 1, int(node.EndPoint().Row) + 1
}
