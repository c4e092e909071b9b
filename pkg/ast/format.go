package ast

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"src.cronus.dev/pkg/object"
)

var (
	nodeType     = reflect.TypeOf((*Node)(nil)).Elem()
	objectType   = reflect.TypeOf((*object.Object)(nil)).Elem()
	stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	runeType     = reflect.TypeOf(rune(0))
)

// Format returns a compact one-line rendering of a tree, such as
//
//	BinOp(Add, Constant(1), BinOp(Mult, Constant(2), Constant(3)))
//
// Fields are written in declaration order. Positions are left out, and so
// are fields that are absent: nil children, empty sequences, empty
// identifiers, false flags and zero counts.
func Format(n Node) string {
	if n == nil || reflect.ValueOf(n).IsNil() {
		return "None"
	}
	var sb strings.Builder
	formatNode(&sb, reflect.ValueOf(n))
	return sb.String()
}

func formatNode(sb *strings.Builder, v reflect.Value) {
	elem := v.Elem()
	t := elem.Type()
	sb.WriteString(t.Name())
	sb.WriteByte('(')
	first := true
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Anonymous {
			continue
		}
		fv := elem.Field(i)
		if absent(fv) {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		formatValue(sb, fv)
	}
	sb.WriteByte(')')
}

func formatValue(sb *strings.Builder, v reflect.Value) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			sb.WriteString("None")
			return
		}
		v = v.Elem()
	}
	switch {
	case v.Type().Implements(objectType):
		sb.WriteString(v.Interface().(object.Object).Repr())
	case v.Type().Implements(nodeType):
		if v.IsNil() {
			sb.WriteString("None")
		} else {
			formatNode(sb, v)
		}
	case v.Type().Implements(stringerType):
		sb.WriteString(v.Interface().(fmt.Stringer).String())
	case v.Type() == runeType:
		sb.WriteString(strconv.QuoteRune(rune(v.Int())))
	case v.Kind() == reflect.Slice:
		sb.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			formatValue(sb, v.Index(i))
		}
		sb.WriteByte(']')
	case v.Kind() == reflect.String:
		sb.WriteString(v.String())
	default:
		fmt.Fprint(sb, v.Interface())
	}
}

// Reports whether a field is left out of Format and Dump output. Enumerated
// values are never absent, since their zero values are meaningful.
func absent(v reflect.Value) bool {
	if v.Type().Implements(stringerType) && !v.Type().Implements(nodeType) {
		return false
	}
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	case reflect.Slice, reflect.String:
		return v.Len() == 0
	}
	return v.IsZero()
}

// Dump converts a tree to plain maps, slices and strings suitable for
// encoding as JSON or YAML. Every node becomes a map with its type under
// "_type" and its fields under snake_case keys; absent fields are left out
// as in Format. If positions is true, positioned nodes also get "lineno",
// "col_offset", "end_lineno" and "end_col_offset" keys.
func Dump(n Node, positions bool) any {
	if n == nil || reflect.ValueOf(n).IsNil() {
		return nil
	}
	return dumpNode(reflect.ValueOf(n), positions)
}

func dumpNode(v reflect.Value, positions bool) map[string]any {
	elem := v.Elem()
	t := elem.Type()
	m := map[string]any{"_type": t.Name()}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fv := elem.Field(i)
		if f.Anonymous {
			if positions && f.Type == reflect.TypeOf(Pos{}) {
				p := fv.Interface().(Pos)
				m["lineno"] = p.Lineno
				m["col_offset"] = p.ColOffset
				m["end_lineno"] = p.EndLineno
				m["end_col_offset"] = p.EndColOffset
			}
			continue
		}
		if absent(fv) {
			continue
		}
		m[snakeCase(f.Name)] = dumpValue(fv, positions)
	}
	return m
}

func dumpValue(v reflect.Value, positions bool) any {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch {
	case v.Type().Implements(objectType):
		return v.Interface().(object.Object).Repr()
	case v.Type().Implements(nodeType):
		if v.IsNil() {
			return nil
		}
		return dumpNode(v, positions)
	case v.Type().Implements(stringerType):
		return v.Interface().(fmt.Stringer).String()
	case v.Type() == runeType:
		return string(rune(v.Int()))
	case v.Kind() == reflect.Slice:
		s := make([]any, v.Len())
		for i := range s {
			s[i] = dumpValue(v.Index(i), positions)
		}
		return s
	}
	return v.Interface()
}

func snakeCase(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Children returns the direct children of a node in field order.
func Children(n Node) []Node {
	var children []Node
	v := reflect.ValueOf(n)
	if v.IsNil() {
		return nil
	}
	elem := v.Elem()
	for i := 0; i < elem.NumField(); i++ {
		if elem.Type().Field(i).Anonymous {
			continue
		}
		fv := elem.Field(i)
		if fv.Kind() == reflect.Slice {
			for j := 0; j < fv.Len(); j++ {
				if child, ok := asNode(fv.Index(j)); ok {
					children = append(children, child)
				}
			}
		} else if child, ok := asNode(fv); ok {
			children = append(children, child)
		}
	}
	return children
}

func asNode(v reflect.Value) (Node, bool) {
	if (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) && v.IsNil() {
		return nil, false
	}
	n, ok := v.Interface().(Node)
	return n, ok
}

// Walk traverses a tree in pre-order. If f returns false for a node, the
// children of that node are skipped.
func Walk(n Node, f func(Node) bool) {
	if !f(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, f)
	}
}
