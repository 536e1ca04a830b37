package textutil

import "fmt"

// Shape is the runtime shape of a polymorphic structured-data field.
type Shape int

const (
	ShapeEmpty Shape = iota
	ShapeText
	ShapeList
	ShapeUnsupported
)

func (s Shape) String() string {
	switch s {
	case ShapeEmpty:
		return "empty"
	case ShapeText:
		return "text"
	case ShapeList:
		return "list"
	default:
		return "unsupported"
	}
}

// ClassifyField reports the shape of a decoded JSON value.
func ClassifyField(v any) Shape {
	switch v.(type) {
	case nil:
		return ShapeEmpty
	case string:
		return ShapeText
	case []any:
		return ShapeList
	default:
		return ShapeUnsupported
	}
}

// ParseInstructionField flattens an instruction field into cleaned steps:
// a string becomes one step, a list maps each element (strings pass
// through, objects contribute their text or name), anything else yields
// no steps.
func ParseInstructionField(v any) []string {
	switch ClassifyField(v) {
	case ShapeText:
		return textSteps(v.(string))
	case ShapeList:
		return listSteps(v.([]any))
	case ShapeEmpty, ShapeUnsupported:
		return []string{}
	default:
		panic(fmt.Sprintf("textutil: unhandled field shape %d", ClassifyField(v)))
	}
}

func textSteps(s string) []string {
	if s = CleanText(s); s == "" {
		return []string{}
	}
	return []string{s}
}

func listSteps(items []any) []string {
	steps := make([]string, 0, len(items))
	for _, item := range items {
		switch x := item.(type) {
		case string:
			if s := CleanText(x); s != "" {
				steps = append(steps, s)
			}
		case map[string]any:
			steps = append(steps, objectSteps(x)...)
		}
	}
	return steps
}

// objectSteps handles HowToStep-like objects. A HowToSection contributes
// the steps of its itemListElement.
func objectSteps(obj map[string]any) []string {
	if nested, ok := obj["itemListElement"].([]any); ok {
		return listSteps(nested)
	}
	for _, key := range []string{"text", "name"} {
		if s, ok := obj[key].(string); ok {
			if s = CleanText(s); s != "" {
				return []string{s}
			}
		}
	}
	return nil
}
