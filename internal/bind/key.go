package bind

import (
	"strconv"

	"geochart/internal/scene"
)

// Identifier is implemented by data items that carry a stable identity.
type Identifier interface {
	ID() string
}

// KeyFunc maps an item and its position to its binding key.
type KeyFunc[T any] func(item T, index int) string

// DefaultKey returns the item's explicit identity when it has one: an
// Identifier with a non-empty ID, or a map with a non-empty "id" entry.
// Anything else is keyed by its position.
//
// Positional keys are not stable when the collection is filtered or
// re-sorted between passes: a node then keeps its place and receives
// whichever item now sits at that index. Give items an identity when their
// visual state must follow them.
func DefaultKey[T any](item T, index int) string {
	switch v := any(item).(type) {
	case Identifier:
		if id := v.ID(); id != "" {
			return id
		}
	case map[string]any:
		if id, ok := v["id"]; ok && !falsy(id) {
			return scene.FormatValue(id)
		}
	}
	return strconv.Itoa(index)
}

// IndexKey ignores identity and keys every item by position.
func IndexKey[T any](_ T, index int) string { return strconv.Itoa(index) }

func falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	}
	return false
}
