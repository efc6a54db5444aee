package script

import (
	"fmt"

	"github.com/risor-io/risor/object"
)

func toString(obj object.Object) (string, error) {
	if s, ok := obj.(*object.String); ok {
		return s.Value(), nil
	}
	return "", fmt.Errorf("expected string, got %s", obj.Type())
}

// visitResult maps a script's return value to a visit decision. Nil means
// recurse.
func visitResult(obj object.Object) (string, error) {
	if obj == nil || obj == object.Nil {
		return "recurse", nil
	}
	s, err := toString(obj)
	if err != nil {
		return "", fmt.Errorf("visitor must return \"recurse\", \"continue\" or \"break\": %w", err)
	}
	return s, nil
}
