package admintest

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Mutation modes for the config tree, mirroring the admin API's verb
// semantics.
type mode int

const (
	modeSet    mode = iota // POST: overwrite, append to arrays, create intermediates
	modeCreate             // PUT: insert, error when the target exists
	modeUpdate             // PATCH: replace, error when the target is missing
)

// traverseError carries the HTTP status a traversal failure maps to.
type traverseError struct {
	status  int
	message string
}

func (e *traverseError) Error() string { return e.message }

func pathError(status int, format string, args ...any) *traverseError {
	return &traverseError{status: status, message: fmt.Sprintf(format, args...)}
}

// splitPath turns an escaped wire path remainder into traversal
// segments. Escaping is undone per segment so keys containing slashes
// survive.
func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	segments := strings.Split(p, "/")
	for i, s := range segments {
		if dec, err := url.PathUnescape(s); err == nil {
			segments[i] = dec
		}
	}
	return segments
}

// getNode walks the tree and returns the addressed node. A missing
// final key in an existing object reads as nil (JSON null); a missing
// intermediate is an error.
func getNode(node any, segments []string) (any, error) {
	if len(segments) == 0 {
		return node, nil
	}
	head, rest := segments[0], segments[1:]
	switch n := node.(type) {
	case map[string]any:
		child, exists := n[head]
		if !exists {
			if len(rest) == 0 {
				return nil, nil
			}
			return nil, pathError(http.StatusNotFound, "invalid traversal path at: %s", head)
		}
		return getNode(child, rest)
	case []any:
		i, err := arrayIndex(head, len(n), false)
		if err != nil {
			return nil, err
		}
		return getNode(n[i], rest)
	case nil:
		if len(rest) == 0 {
			return nil, nil
		}
		return nil, pathError(http.StatusNotFound, "invalid traversal path at: %s", head)
	default:
		return nil, pathError(http.StatusBadRequest, "cannot traverse into value at: %s", head)
	}
}

// setNode writes value at the addressed location and returns the
// (possibly replaced) subtree. modeSet creates missing intermediate
// objects and appends when the target is an array; modeCreate inserts
// and refuses to clobber; modeUpdate replaces and refuses to invent.
func setNode(node any, segments []string, value any, m mode) (any, error) {
	if len(segments) == 0 {
		switch m {
		case modeCreate:
			if node != nil {
				return nil, pathError(http.StatusConflict, "value already exists")
			}
		case modeUpdate:
			if node == nil {
				return nil, pathError(http.StatusNotFound, "no value to replace")
			}
		case modeSet:
			if arr, isArr := node.([]any); isArr {
				if add, isAdd := value.([]any); isAdd {
					return append(arr, add...), nil
				}
				return append(arr, value), nil
			}
		}
		return value, nil
	}

	head, rest := segments[0], segments[1:]
	switch n := node.(type) {
	case map[string]any:
		child, err := setNode(n[head], rest, value, m)
		if err != nil {
			return nil, err
		}
		n[head] = child
		return n, nil
	case []any:
		if len(rest) == 0 && m == modeCreate {
			i, err := arrayIndex(head, len(n), true)
			if err != nil {
				return nil, err
			}
			out := make([]any, 0, len(n)+1)
			out = append(out, n[:i]...)
			out = append(out, value)
			out = append(out, n[i:]...)
			return out, nil
		}
		i, err := arrayIndex(head, len(n), false)
		if err != nil {
			return nil, err
		}
		child, err := setNode(n[i], rest, value, m)
		if err != nil {
			return nil, err
		}
		n[i] = child
		return n, nil
	case nil:
		if m == modeUpdate {
			return nil, pathError(http.StatusNotFound, "invalid traversal path at: %s", head)
		}
		child, err := setNode(nil, rest, value, m)
		if err != nil {
			return nil, err
		}
		return map[string]any{head: child}, nil
	default:
		return nil, pathError(http.StatusBadRequest, "cannot traverse into value at: %s", head)
	}
}

// deleteNode removes the addressed node and returns the new subtree.
func deleteNode(node any, segments []string) (any, error) {
	if len(segments) == 0 {
		return nil, nil
	}
	head, rest := segments[0], segments[1:]
	switch n := node.(type) {
	case map[string]any:
		child, exists := n[head]
		if !exists {
			return nil, pathError(http.StatusNotFound, "no value at: %s", head)
		}
		if len(rest) == 0 {
			delete(n, head)
			return n, nil
		}
		newChild, err := deleteNode(child, rest)
		if err != nil {
			return nil, err
		}
		n[head] = newChild
		return n, nil
	case []any:
		i, err := arrayIndex(head, len(n), false)
		if err != nil {
			return nil, err
		}
		if len(rest) == 0 {
			return append(n[:i], n[i+1:]...), nil
		}
		newChild, err := deleteNode(n[i], rest)
		if err != nil {
			return nil, err
		}
		n[i] = newChild
		return n, nil
	case nil:
		return nil, pathError(http.StatusNotFound, "invalid traversal path at: %s", head)
	default:
		return nil, pathError(http.StatusBadRequest, "cannot traverse into value at: %s", head)
	}
}

// findByID locates the object tagged "@id": id and returns its
// traversal path from the root.
func findByID(node any, id string) ([]string, bool) {
	switch n := node.(type) {
	case map[string]any:
		if tag, isStr := n["@id"].(string); isStr && tag == id {
			return []string{}, true
		}
		for k, v := range n {
			if p, found := findByID(v, id); found {
				return append([]string{k}, p...), true
			}
		}
	case []any:
		for i, v := range n {
			if p, found := findByID(v, id); found {
				return append([]string{strconv.Itoa(i)}, p...), true
			}
		}
	}
	return nil, false
}

func arrayIndex(s string, length int, allowEnd bool) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, pathError(http.StatusBadRequest, "invalid array index: %s", s)
	}
	limit := length - 1
	if allowEnd {
		limit = length
	}
	if i < 0 || i > limit {
		return 0, pathError(http.StatusBadRequest, "array index out of bounds: %d", i)
	}
	return i, nil
}
