package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

// bindRequest fills the request struct from the query string for GET requests
// and from the JSON body otherwise. Query fields are matched by their json
// tag.
func bindRequest(req *http.Request, method string, target any) error {
	if method != http.MethodGet {
		if req.Body == nil {
			return nil
		}

		defer req.Body.Close()
		if err := json.NewDecoder(req.Body).Decode(target); err != nil {
			return fmt.Errorf("invalid json body: %w", err)
		}

		return nil
	}

	query := req.URL.Query()
	value := reflect.ValueOf(target).Elem()
	structType := value.Type()

	for i := 0; i < structType.NumField(); i++ {
		name, _, _ := strings.Cut(structType.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}

		raw := query.Get(name)
		if raw == "" {
			continue
		}

		field := value.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)

		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer for field %s: %w", name, err)
			}
			field.SetInt(n)

		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer for field %s: %w", name, err)
			}
			field.SetUint(n)

		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("invalid boolean for field %s: %w", name, err)
			}
			field.SetBool(b)

		case reflect.Float32, reflect.Float64:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("invalid number for field %s: %w", name, err)
			}
			field.SetFloat(f)

		default:
			return fmt.Errorf("unsupported query field %s of kind %s", name, field.Kind())
		}
	}

	return nil
}
