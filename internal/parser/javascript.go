package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

func getJavaScriptLanguage() *sitter.Language {
	return javascript.GetLanguage()
}

// topLevelJavaScript extracts top-level function and class declarations,
// including those wrapped in export statements.
func topLevelJavaScript(root *sitter.Node, source []byte) []Definition {
	var defs []Definition

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)

		switch child.Type() {
		case "function_declaration", "generator_function_declaration", "class_declaration":
			if d, ok := jsDefinition(child, child, source); ok {
				defs = append(defs, d)
			}

		case "export_statement":
			for j := 0; j < int(child.ChildCount()); j++ {
				inner := child.Child(j)
				switch inner.Type() {
				case "function_declaration", "generator_function_declaration", "class_declaration":
					if d, ok := jsDefinition(child, inner, source); ok {
						defs = append(defs, d)
					}
				}
			}
		}
	}

	return defs
}

func jsDefinition(span, decl *sitter.Node, source []byte) (Definition, bool) {
	nameNode := decl.ChildByFieldName("name")
	if nameNode == nil {
		return Definition{}, false
	}

	kind := DefFunction
	if decl.Type() == "class_declaration" {
		kind = DefClass
	}

	start, end := nodeLines(span)
	return Definition{
		Name:      nodeContent(nameNode, source),
		Kind:      kind,
		StartLine: start,
		EndLine:   end,
	}, true
}
