package primitive

import (
	"reflect"
	"strconv"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // alias to any integer number, boolean or string

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

func (k KindEnum) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsInteger() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only numeric kinds have a meaningful bit width, but requested for: " + k.String())
	case KindInt, KindUint:
		return strconv.IntSize
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
}

// FromReflectType classifies a reflect type into a primitive kind. True
// primitives match exactly; named integer and string types classify as
// KindPrimitiveEnum so enum-aware conversions can pick them up. Everything
// else returns the zero KindEnum.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	// check if true primitive type
	switch rtype {
	case reflect.TypeFor[int]():
		return KindInt
	case reflect.TypeFor[int8]():
		return KindInt8
	case reflect.TypeFor[int16]():
		return KindInt16
	case reflect.TypeFor[int32]():
		return KindInt32
	case reflect.TypeFor[int64]():
		return KindInt64
	case reflect.TypeFor[uint]():
		return KindUint
	case reflect.TypeFor[uint8]():
		return KindUint8
	case reflect.TypeFor[uint16]():
		return KindUint16
	case reflect.TypeFor[uint32]():
		return KindUint32
	case reflect.TypeFor[uint64]():
		return KindUint64
	case reflect.TypeFor[float32]():
		return KindFloat32
	case reflect.TypeFor[float64]():
		return KindFloat64
	case reflect.TypeFor[bool]():
		return KindBool
	case reflect.TypeFor[string]():
		return KindString
	case reflect.TypeFor[time.Time]():
		return KindTime
	case reflect.TypeFor[time.Duration]():
		return KindDuration
	}

	// check if it's a primitive enum type
	switch rtype.Kind() {
	default:
		return 0
	case reflect.Int, reflect.String:
		return KindPrimitiveEnum
	}
}
