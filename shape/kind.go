package shape

// Kind identifies the host-side form a projection produces.
type Kind uint8

const (
	KindBoolean Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindChar
	KindString
	KindNumber
	KindList
	KindMap
	KindInterface
	KindAny
	KindObject
	KindHost
	KindProxy
	KindNative
)

var kindNames = [...]string{
	KindBoolean:   "bool",
	KindInt8:      "int8",
	KindInt16:     "int16",
	KindInt32:     "int32",
	KindInt64:     "int64",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindChar:      "char",
	KindString:    "string",
	KindNumber:    "number",
	KindList:      "list",
	KindMap:       "map",
	KindInterface: "iface",
	KindAny:       "any",
	KindObject:    "object",
	KindHost:      "host",
	KindProxy:     "proxy",
	KindNative:    "native",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) IsScalar() bool {
	return k <= KindNumber
}

// IsIntegral reports whether k is one of the fixed-width integer kinds.
func (k Kind) IsIntegral() bool {
	return k >= KindInt8 && k <= KindInt64
}

// Category groups kinds that share one projection strategy.
type Category uint8

const (
	CategoryScalar Category = iota
	CategoryCollection
	CategoryInterface
	CategoryAny
	CategoryObject
	CategoryPassthrough
)

var categoryNames = [...]string{
	CategoryScalar:      "scalar",
	CategoryCollection:  "collection",
	CategoryInterface:   "interface",
	CategoryAny:         "any",
	CategoryObject:      "object",
	CategoryPassthrough: "passthrough",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

func (k Kind) Category() Category {
	switch {
	case k.IsScalar():
		return CategoryScalar
	case k == KindList || k == KindMap:
		return CategoryCollection
	case k == KindInterface:
		return CategoryInterface
	case k == KindAny:
		return CategoryAny
	case k == KindObject:
		return CategoryObject
	}
	return CategoryPassthrough
}

// isKeyKind reports whether k may key a map view. Int8, Int16, Float32 and
// Float64 are well-formed keys that no value can satisfy.
func isKeyKind(k Kind) bool {
	switch k {
	case KindObject, KindString, KindInt8, KindInt16, KindInt32, KindInt64,
		KindNumber, KindFloat32, KindFloat64:
		return true
	}
	return false
}
