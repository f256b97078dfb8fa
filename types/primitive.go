package types

// Predeclared primitive types. Primitives are immutable singletons shared by
// every registry, so pointer identity holds across compilation sessions.
var (
	Bool    = newPrimitive("bool", 0, numberNone)
	String  = newPrimitive("string", 0, numberNone)
	Int8    = newPrimitive("int8", 8, numberInt)
	Int16   = newPrimitive("int16", 16, numberInt)
	Int32   = newPrimitive("int32", 32, numberInt)
	Int64   = newPrimitive("int64", 64, numberInt)
	Uint8   = newPrimitive("uint8", 8, numberUint)
	Uint16  = newPrimitive("uint16", 16, numberUint)
	Uint32  = newPrimitive("uint32", 32, numberUint)
	Uint64  = newPrimitive("uint64", 64, numberUint)
	Float32 = newPrimitive("float32", 32, numberFloat)
	Float64 = newPrimitive("float64", 64, numberFloat)
)

type numberClass int

const (
	numberNone numberClass = iota
	numberInt
	numberUint
	numberFloat
)

func newPrimitive(name string, bits int, class numberClass) *Type {
	return &Type{name: name, kind: KindPrimitive, bits: bits, class: class}
}

// Primitives returns the predeclared primitive types.
func Primitives() []*Type {
	return []*Type{Bool, String, Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64, Float32, Float64}
}
