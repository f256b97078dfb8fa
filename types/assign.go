package types

// Widens returns true when a value of the from primitive can be carried by the
// to primitive with no precision loss. Identity is not widening; the caller
// handles it. Int64 does not widen to Float64: a 64 bit mantissa does not fit.
func Widens(from, to *Type) bool {
	if from == nil || to == nil || from == to {
		return false
	}
	if from.kind != KindPrimitive || to.kind != KindPrimitive {
		return false
	}
	switch from.class {
	case numberInt:
		switch to.class {
		case numberInt:
			return to.bits > from.bits
		case numberFloat:
			return widensToFloat(from.bits, to.bits)
		}
	case numberUint:
		switch to.class {
		case numberUint:
			return to.bits > from.bits
		case numberInt:
			return to.bits > from.bits
		case numberFloat:
			return widensToFloat(from.bits, to.bits)
		}
	case numberFloat:
		return to.class == numberFloat && to.bits > from.bits
	}
	return false
}

func widensToFloat(fromBits, floatBits int) bool {
	switch floatBits {
	case 32:
		return fromBits <= 16
	case 64:
		return fromBits <= 32
	}
	return false
}

// AssignableTo returns true when a value of src type can be assigned to a dst
// typed slot under nominal rules: identity, supertype hierarchy, or primitive
// widening. Array element types are invariant. Structural satisfaction is a
// separate concern decided by the structural checker.
func AssignableTo(src, dst *Type) bool {
	if src == nil || dst == nil {
		return false
	}
	if src == dst {
		return true
	}
	if src.kind == KindPrimitive && dst.kind == KindPrimitive {
		return Widens(src, dst)
	}
	if src.kind == KindArray || dst.kind == KindArray {
		return false
	}
	return src.IsSubtypeOf(dst)
}
