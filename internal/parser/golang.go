package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

func getGoLanguage() *sitter.Language {
	return golang.GetLanguage()
}

func topLevelGo(root *sitter.Node, source []byte) []Definition {
	var defs []Definition

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)

		switch child.Type() {
		case "function_declaration", "method_declaration":
			name := ""
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				name = nodeContent(nameNode, source)
			}
			start, end := nodeLines(child)
			defs = append(defs, Definition{
				Name:      name,
				Kind:      DefFunction,
				StartLine: start,
				EndLine:   end,
			})

		case "type_declaration":
			if spec := findChild(child, "type_spec"); spec != nil {
				name := ""
				if nameNode := spec.ChildByFieldName("name"); nameNode != nil {
					name = nodeContent(nameNode, source)
				}
				start, end := nodeLines(child)
				defs = append(defs, Definition{
					Name:      name,
					Kind:      DefType,
					StartLine: start,
					EndLine:   end,
				})
			}
		}
	}

	return defs
}
