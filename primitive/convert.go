package primitive

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"pathcaster/utils"
)

var (
	ErrPairNotAllowed = errors.New("conversion pair is not enabled by the allowed categories")
	ErrBadBoolNumber  = errors.New("only numbers 0 and 1 are allowed for bool")
	ErrBadBoolText    = errors.New("only strings true/false, yes/no, on/off are allowed for bool")
	ErrEnumShape      = errors.New("enum conversions need a string-kinded type or a String method")
	ErrInvalidEnum    = errors.New("value is not valid for the enum type")
)

var (
	stringerType  = reflect.TypeFor[interface{ String() string }]()
	validatorType = reflect.TypeFor[interface{ IsValid() bool }]()
)

// CanConvert reports whether Convert accepts the src-to-dst pair under the
// allowed categories. It answers from the category tables alone; a permitted
// pair can still fail on a bad value (unparseable text, out-of-range bool).
func CanConvert(src, dst reflect.Type, allowed CategoryEnum) bool {
	pair := ConversionPair{FromReflectType(src), FromReflectType(dst)}
	if pair.From == 0 || pair.To == 0 {
		return false
	}

	_, ok := AllowedPairs(allowed)[pair]

	return ok
}

// Convert turns src into a dst-typed value following the category semantics:
// numbers convert numerically, text lanes go through strconv, booleans accept
// the 0/1 and yes/no spellings, time types use RFC3339Nano and Unix seconds,
// and enum lanes bridge through String and IsValid methods.
func Convert(src reflect.Value, dst reflect.Type, allowed CategoryEnum) (reflect.Value, error) {
	pair := ConversionPair{FromReflectType(src.Type()), FromReflectType(dst)}
	if _, ok := AllowedPairs(allowed)[pair]; !ok {
		return reflect.Value{}, fmt.Errorf("convert %s -> %s: %w", src.Type(), dst, ErrPairNotAllowed)
	}

	out, err := convertPair(pair, src, dst)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("convert %s -> %s: %w", src.Type(), dst, err)
	}

	return out, nil
}

func convertPair(pair ConversionPair, src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	if pair.From == KindPrimitiveEnum || pair.To == KindPrimitiveEnum {
		return convertEnum(src, dst)
	}

	switch {
	default:
		return reflect.Value{}, ErrPairNotAllowed

	case pair.From.IsNumber() && pair.To.IsNumber():
		return src.Convert(dst), nil

	case pair.From.IsNumber() && pair.To == KindString:
		return reflect.ValueOf(formatNumber(pair.From, src)), nil

	case pair.From == KindString && pair.To.IsNumber():
		return parseNumber(pair.To, src.String(), dst)

	case pair.From.IsInteger() && pair.To == KindBool:
		n, err := intValue(pair.From, src)
		if err != nil {
			return reflect.Value{}, err
		}
		if !utils.IsInRange(0, n, 1) {
			return reflect.Value{}, fmt.Errorf("%w, got: %d", ErrBadBoolNumber, n)
		}

		return reflect.ValueOf(n == 1), nil

	case pair.From == KindBool && pair.To.IsInteger():
		var n int64
		if src.Bool() {
			n = 1
		}

		return reflect.ValueOf(n).Convert(dst), nil

	case pair.From == KindString && pair.To == KindBool:
		switch strings.ToLower(src.String()) {
		default:
			return reflect.Value{}, fmt.Errorf("%w, got: %s", ErrBadBoolText, src.String())
		case "true", "yes", "on":
			return reflect.ValueOf(true), nil
		case "false", "no", "off":
			return reflect.ValueOf(false), nil
		}

	case pair.From == KindBool && pair.To == KindString:
		return reflect.ValueOf(strconv.FormatBool(src.Bool())), nil

	case pair.From == KindString && pair.To == KindTime:
		t, err := time.Parse(time.RFC3339Nano, src.String())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(t), nil

	case pair.From == KindTime && pair.To == KindString:
		return reflect.ValueOf(src.Interface().(time.Time).Format(time.RFC3339Nano)), nil

	case pair.From.IsInteger() && pair.To == KindTime:
		n, err := intValue(pair.From, src)
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(time.Unix(n, 0)), nil

	case pair.From == KindTime && pair.To.IsInteger():
		sec := src.Interface().(time.Time).Unix()
		return reflect.ValueOf(sec).Convert(dst), nil

	case pair.From.IsInteger() && pair.To == KindDuration:
		return src.Convert(dst), nil

	case pair.From == KindDuration && pair.To.IsInteger():
		ns := src.Interface().(time.Duration).Nanoseconds()
		return reflect.ValueOf(ns).Convert(dst), nil

	case pair.From.IsFloat() && pair.To == KindDuration:
		d := time.Duration(src.Float() * float64(time.Second))
		return reflect.ValueOf(d), nil

	case pair.From == KindDuration && pair.To.IsFloat():
		sec := src.Interface().(time.Duration).Seconds()
		return reflect.ValueOf(sec).Convert(dst), nil
	}
}

// convertEnum bridges enum-kinded types through their textual form. The
// source side textualizes via String when available or a string cast
// otherwise; the destination side casts and then consults IsValid when the
// type declares one.
func convertEnum(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	var text string

	switch {
	case src.Type().Implements(stringerType):
		text = src.Interface().(interface{ String() string }).String()
	case src.Kind() == reflect.String:
		text = src.String()
	default:
		return reflect.Value{}, fmt.Errorf("source %s: %w", src.Type(), ErrEnumShape)
	}

	if dst.Kind() != reflect.String {
		return reflect.Value{}, fmt.Errorf("target %s: %w", dst, ErrEnumShape)
	}

	out := reflect.ValueOf(text).Convert(dst)
	if dst.Implements(validatorType) {
		if !out.Interface().(interface{ IsValid() bool }).IsValid() {
			return reflect.Value{}, fmt.Errorf("%q for %s: %w", text, dst, ErrInvalidEnum)
		}
	}

	return out, nil
}

func formatNumber(kind KindEnum, src reflect.Value) string {
	switch {
	default:
		return strconv.FormatFloat(src.Float(), 'f', -1, kind.Bits())
	case kind.IsSigned():
		return strconv.FormatInt(src.Int(), 10)
	case kind.IsUnsigned():
		return strconv.FormatUint(src.Uint(), 10)
	}
}

func parseNumber(kind KindEnum, text string, dst reflect.Type) (reflect.Value, error) {
	switch {
	default:
		f, err := strconv.ParseFloat(text, kind.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(f).Convert(dst), nil

	case kind.IsSigned():
		n, err := strconv.ParseInt(text, 10, kind.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(n).Convert(dst), nil

	case kind.IsUnsigned():
		n, err := strconv.ParseUint(text, 10, kind.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(n).Convert(dst), nil
	}
}

// intValue widens any integer-kinded value to int64, failing on unsigned
// values beyond the int64 range.
func intValue(kind KindEnum, src reflect.Value) (int64, error) {
	if kind.IsUnsigned() {
		u := src.Uint()
		if u > uint64(1<<63-1) {
			return 0, fmt.Errorf("unsigned value %d overflows int64", u)
		}

		return int64(u), nil
	}

	return src.Int(), nil
}
