package convert

import (
	"fmt"
	"image"
	"math"
)

// Property values come from a resource graph reader, so integers may arrive
// as any Go integer or float type and vectors as image.Point or pairs.

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return int(n), n == float32(math.Trunc(float64(n)))
	case float64:
		return int(n), n == math.Trunc(n)
	}
	return 0, false
}

func toPoint(v any) (image.Point, bool) {
	switch p := v.(type) {
	case image.Point:
		return p, true
	case [2]int:
		return image.Pt(p[0], p[1]), true
	case [2]float32:
		return image.Pt(int(p[0]), int(p[1])), true
	case [2]float64:
		return image.Pt(int(p[0]), int(p[1])), true
	case []any:
		if len(p) != 2 {
			return image.Point{}, false
		}
		x, okx := toInt(p[0])
		y, oky := toInt(p[1])
		return image.Pt(x, y), okx && oky
	}
	return image.Point{}, false
}

// intProp reads an optional integer property; absent means 0.
func intProp(props map[string]any, key string) (int, error) {
	v, ok := props[key]
	if !ok || v == nil {
		return 0, nil
	}
	n, ok := toInt(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s is %T, want an integer", ErrInvalidProperty, key, v)
	}
	return n, nil
}

// pointProp reads an optional vector property; absent means the zero point.
func pointProp(props map[string]any, key string) (image.Point, error) {
	v, ok := props[key]
	if !ok || v == nil {
		return image.Point{}, nil
	}
	p, ok := toPoint(v)
	if !ok {
		return image.Point{}, fmt.Errorf("%w: %s is %T, want a vector", ErrInvalidProperty, key, v)
	}
	return p, nil
}

func boolProp(props map[string]any, key string) (bool, error) {
	switch v := props[key].(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	default:
		n, ok := toInt(v)
		if !ok {
			return false, fmt.Errorf("%w: %s is %T, want a bool", ErrInvalidProperty, key, v)
		}
		return n != 0, nil
	}
}
