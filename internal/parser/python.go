package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

func getPythonLanguage() *sitter.Language {
	return python.GetLanguage()
}

// topLevelPython walks the module body only. Nested definitions stay inside
// their enclosing chunk.
func topLevelPython(root *sitter.Node, source []byte) []Definition {
	var defs []Definition

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)

		switch child.Type() {
		case "function_definition", "class_definition":
			defs = append(defs, pythonDefinition(child, child, source))

		case "decorated_definition":
			// The outer node spans the decorators; the inner node carries
			// the name and kind.
			inner := findChild(child, "function_definition")
			if inner == nil {
				inner = findChild(child, "class_definition")
			}
			if inner != nil {
				defs = append(defs, pythonDefinition(child, inner, source))
			}
		}
	}

	return defs
}

func pythonDefinition(span, decl *sitter.Node, source []byte) Definition {
	name := ""
	if nameNode := decl.ChildByFieldName("name"); nameNode != nil {
		name = nodeContent(nameNode, source)
	}

	kind := DefFunction
	if decl.Type() == "class_definition" {
		kind = DefClass
	}

	start, end := nodeLines(span)
	return Definition{
		Name:      name,
		Kind:      kind,
		StartLine: start,
		EndLine:   end,
	}
}
