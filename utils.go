package apiclient

import (
	"fmt"
	urlpkg "net/url"
	"reflect"
	"strconv"
	"strings"
)

func toInt(val any) (int64, error) {
	var idInt int64
	switch v := val.(type) {
	case int64:
		idInt = v
	case float64:
		idInt = int64(v)
	case int:
		idInt = int64(v)
	default:
		return 0, fmt.Errorf("unexpected type for integer field: %T", v)
	}
	return idInt, nil
}

// contains checks if a string is present in a slice
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// stringifyQueryValue renders a single query value. Slices and arrays are
// joined with commas; floats keep their shortest representation.
func stringifyQueryValue(v any) string {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts[i] = stringifyQueryValue(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// convertMapToQuery converts a map[string]any to a URL query string.
func convertMapToQuery(params Params) string {
	values := urlpkg.Values{}
	for k, v := range params {
		values.Set(k, stringifyQueryValue(v))
	}
	return values.Encode()
}

// structToMap converts a struct to a map[string]interface{} using reflection,
// respecting json tags and handling nested structs recursively.
// This avoids the overhead of JSON marshaling/unmarshaling.
func structToMap(item interface{}) map[string]interface{} {
	res := map[string]interface{}{}
	if item == nil {
		return res
	}

	v := reflect.TypeOf(item)
	reflectValue := reflect.ValueOf(item)
	reflectValue = reflect.Indirect(reflectValue)

	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	// Only process structs
	if v.Kind() != reflect.Struct {
		return res
	}

	for i := 0; i < v.NumField(); i++ {
		jsonTag := v.Field(i).Tag.Get("json")
		field := reflectValue.Field(i)

		// Skip unexported fields
		if !field.CanInterface() {
			continue
		}

		tagName, omitEmpty := parseJSONTag(jsonTag)
		if tagName == "" || tagName == "-" {
			continue
		}

		fieldValue := field.Interface()

		switch {
		case field.Kind() == reflect.Ptr:
			if field.IsNil() {
				if omitEmpty {
					continue
				}
				res[tagName] = nil
			} else if field.Elem().Kind() == reflect.Struct {
				res[tagName] = structToMap(field.Interface())
			} else {
				res[tagName] = field.Elem().Interface()
			}

		case v.Field(i).Type.Kind() == reflect.Struct:
			res[tagName] = structToMap(fieldValue)

		case field.Kind() == reflect.Slice || field.Kind() == reflect.Array:
			if field.Kind() == reflect.Slice && field.IsNil() {
				if omitEmpty {
					continue
				}
				res[tagName] = nil
			} else if field.Len() == 0 && omitEmpty {
				continue
			} else {
				res[tagName] = fieldValue
			}

		default:
			if omitEmpty && isZeroValue(field) {
				continue
			}
			res[tagName] = fieldValue
		}
	}
	return res
}

// parseJSONTag parses a JSON struct tag and returns the field name and
// whether omitempty is specified.
func parseJSONTag(tag string) (name string, omitEmpty bool) {
	if tag == "" {
		return "", false
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	for i := 1; i < len(parts); i++ {
		if strings.TrimSpace(parts[i]) == "omitempty" {
			omitEmpty = true
			break
		}
	}
	return name, omitEmpty
}

// isZeroValue reports whether v is the zero value for its type.
// This is used to implement omitempty behavior for non-pointer types.
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.String:
		return v.Len() == 0
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}
