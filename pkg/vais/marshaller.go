package vais

import (
	"fmt"
	"reflect"

	"github.com/vais-lang/vais/internal/value"
)

// Marshaller handles conversion between Go and vais values.
//
//	Go                       vais
//	intN, uintN              Int
//	float32, float64         Float
//	bool                     Bool
//	string                   String
//	slice, array             Array
//	struct (exported fields) Tuple
//	nil                      Void
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

var valueType = reflect.TypeOf(value.Value{})

// ToValue converts a Go value to a vais Value.
func (m *Marshaller) ToValue(val any) (value.Value, error) {
	if val == nil {
		return value.VoidVal(), nil
	}
	if v, ok := val.(value.Value); ok {
		return v, nil
	}
	return m.toValue(reflect.ValueOf(val))
}

func (m *Marshaller) toValue(v reflect.Value) (value.Value, error) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return value.VoidVal(), nil
		}
		v = v.Elem()
	}
	if v.Type() == valueType {
		return v.Interface().(value.Value), nil
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.IntVal(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return value.IntVal(int64(v.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return value.FloatVal(v.Float()), nil
	case reflect.Bool:
		return value.BoolVal(v.Bool()), nil
	case reflect.String:
		return value.StringVal(v.String()), nil
	case reflect.Slice, reflect.Array:
		return m.sliceToArray(v)
	case reflect.Struct:
		return m.structToTuple(v)
	}
	return value.Value{}, fmt.Errorf("unsupported Go type %s", v.Type())
}

func (m *Marshaller) sliceToArray(v reflect.Value) (value.Value, error) {
	elements := make([]value.Value, v.Len())
	for i := 0; i < v.Len(); i++ {
		el, err := m.toValue(v.Index(i))
		if err != nil {
			return value.Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		elements[i] = el
	}
	return value.ArrayVal(elements), nil
}

func (m *Marshaller) structToTuple(v reflect.Value) (value.Value, error) {
	t := v.Type()
	var fields []value.Value
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" { // Skip unexported fields
			continue
		}
		el, err := m.toValue(v.Field(i))
		if err != nil {
			return value.Value{}, fmt.Errorf("field %s: %w", field.Name, err)
		}
		fields = append(fields, el)
	}
	return value.ArrayVal(fields), nil
}

// FromValue converts a vais Value to a Go value.
// targetType is optional; if provided, tries to convert to that type.
func (m *Marshaller) FromValue(v value.Value, targetType reflect.Type) (any, error) {
	if targetType == valueType {
		return v, nil
	}

	switch v.Kind {
	case value.KindVoid:
		return nil, nil
	case value.KindInt:
		if targetType != nil {
			switch targetType.Kind() {
			case reflect.Int64:
				return v.AsInt(), nil
			case reflect.Float64:
				return float64(v.AsInt()), nil
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
				reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
				return reflect.ValueOf(v.AsInt()).Convert(targetType).Interface(), nil
			}
		}
		return int(v.AsInt()), nil // Default to int
	case value.KindFloat:
		if targetType != nil && targetType.Kind() == reflect.Float32 {
			return float32(v.AsFloat()), nil
		}
		return v.AsFloat(), nil
	case value.KindBool:
		return v.AsBool(), nil
	case value.KindString:
		return v.AsString(), nil
	case value.KindArray:
		if targetType != nil && targetType.Kind() == reflect.Struct {
			return m.arrayToStruct(v.AsArray(), targetType)
		}
		return m.arrayToSlice(v.AsArray(), targetType)
	}
	return nil, fmt.Errorf("unsupported value kind %s", v.Kind)
}

func (m *Marshaller) arrayToSlice(elems []value.Value, targetType reflect.Type) (any, error) {
	// If targetType is nil, default to []any
	elemType := reflect.TypeOf((*any)(nil)).Elem()
	if targetType != nil && targetType.Kind() == reflect.Slice {
		elemType = targetType.Elem()
	}

	slice := reflect.MakeSlice(reflect.SliceOf(elemType), 0, len(elems))
	for i, el := range elems {
		rv, err := m.assignable(el, elemType)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		slice = reflect.Append(slice, rv)
	}
	return slice.Interface(), nil
}

func (m *Marshaller) arrayToStruct(elems []value.Value, targetType reflect.Type) (any, error) {
	out := reflect.New(targetType).Elem()
	next := 0
	for i := 0; i < targetType.NumField(); i++ {
		field := targetType.Field(i)
		if field.PkgPath != "" {
			continue
		}
		if next >= len(elems) {
			return nil, fmt.Errorf("tuple of %d elements is too short for %s", len(elems), targetType)
		}
		rv, err := m.assignable(elems[next], field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		out.Field(i).Set(rv)
		next++
	}
	if next != len(elems) {
		return nil, fmt.Errorf("tuple of %d elements does not fit %s", len(elems), targetType)
	}
	return out.Interface(), nil
}

// assignable converts v to a reflect.Value assignable to t.
func (m *Marshaller) assignable(v value.Value, t reflect.Type) (reflect.Value, error) {
	val, err := m.FromValue(v, t)
	if err != nil {
		return reflect.Value{}, err
	}
	if val == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(val)
	switch {
	case rv.Type().AssignableTo(t):
		return rv, nil
	case rv.Type().ConvertibleTo(t):
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", rv.Type(), t)
}
