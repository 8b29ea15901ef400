package json

import (
	"fmt"

	"github.com/fwojciec/parley"
)

// nodeDTO is the JSON representation of a Node with a type discriminator.
type nodeDTO struct {
	Type     string    `json:"type"`
	Text     *string   `json:"text,omitempty"`
	Language *string   `json:"language,omitempty"`
	Code     *string   `json:"code,omitempty"`
	Children []nodeDTO `json:"children,omitempty"`
}

func marshalNodes(nodes []parley.Node) ([]nodeDTO, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	result := make([]nodeDTO, len(nodes))
	for i, n := range nodes {
		dto, err := marshalNode(n)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		result[i] = dto
	}
	return result, nil
}

func marshalNode(n parley.Node) (nodeDTO, error) {
	switch v := n.(type) {
	case parley.Plain:
		return nodeDTO{Type: "text", Text: &v.Text}, nil
	case parley.Strong:
		return nodeDTO{Type: "strong", Text: &v.Text}, nil
	case parley.Emphasis:
		return nodeDTO{Type: "emphasis", Text: &v.Text}, nil
	case parley.LineBreak:
		return nodeDTO{Type: "line_break"}, nil
	case parley.BulletItem:
		children, err := marshalNodes(v.Children)
		if err != nil {
			return nodeDTO{}, err
		}
		return nodeDTO{Type: "bullet_item", Children: children}, nil
	case parley.CodeBlock:
		dto := nodeDTO{Type: "code_block", Code: &v.Code}
		if v.Language != "" {
			dto.Language = &v.Language
		}
		return dto, nil
	default:
		return nodeDTO{}, fmt.Errorf("unknown node type: %T", n)
	}
}

func unmarshalNodes(dtos []nodeDTO) ([]parley.Node, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	result := make([]parley.Node, len(dtos))
	for i, dto := range dtos {
		n, err := unmarshalNode(dto)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		result[i] = n
	}
	return result, nil
}

func unmarshalNode(dto nodeDTO) (parley.Node, error) {
	var text string
	if dto.Text != nil {
		text = *dto.Text
	}
	switch dto.Type {
	case "text":
		return parley.Plain{Text: text}, nil
	case "strong":
		return parley.Strong{Text: text}, nil
	case "emphasis":
		return parley.Emphasis{Text: text}, nil
	case "line_break":
		return parley.LineBreak{}, nil
	case "bullet_item":
		children, err := unmarshalNodes(dto.Children)
		if err != nil {
			return nil, err
		}
		return parley.BulletItem{Children: children}, nil
	case "code_block":
		var lang, code string
		if dto.Language != nil {
			lang = *dto.Language
		}
		if dto.Code != nil {
			code = *dto.Code
		}
		return parley.CodeBlock{Language: lang, Code: code}, nil
	default:
		return nil, fmt.Errorf("unknown node type: %q", dto.Type)
	}
}
