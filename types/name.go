package types

import "strings"

// SimpleName returns the last segment of a dotted fully qualified name.
func SimpleName(name string) string {
	if index := strings.LastIndexByte(name, '.'); index != -1 {
		return name[index+1:]
	}
	return name
}

// Qualifier returns the dotted prefix of a fully qualified name, empty when unqualified.
func Qualifier(name string) string {
	if index := strings.LastIndexByte(name, '.'); index != -1 {
		return name[:index]
	}
	return ""
}

// IsArrayName returns true when a textual reference denotes an array type.
func IsArrayName(name string) bool {
	return strings.HasSuffix(name, "[]")
}

// ElemName returns the element name of an array reference.
func ElemName(name string) string {
	return strings.TrimSuffix(name, "[]")
}
