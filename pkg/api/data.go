package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

type Parameter map[string]string

func (p Parameter) Encode() string {
	pairs := make([]string, 0, len(p))
	for key, value := range p {
		pairs = append(pairs, key+"="+url.QueryEscape(value))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "&")
}

// JSON is a decoded object body. Getters take dotted paths, so
// GetString("rawContract.address") walks nested objects.
type JSON map[string]any

type Array []any

func (j JSON) ToReader() (io.Reader, string, error) {
	b, err := json.Marshal(j)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewBuffer(b), "application/json", nil
}

// Get walks the dotted path and returns the raw value. A missing field is an
// error, a json null is returned as nil.
func (j JSON) Get(path string) (any, error) {
	key, rest, nested := strings.Cut(path, ".")

	value, ok := j[key]
	if !ok {
		return nil, fmt.Errorf("field %s not found", key)
	}

	if !nested {
		return value, nil
	}

	child, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("field %s is %T, not an object", key, value)
	}

	return JSON(child).Get(rest)
}

// get resolves the path and asserts the value's type, treating json null as
// the zero value.
func get[T any](j JSON, path string) (T, error) {
	var zero T
	value, err := j.Get(path)
	if err != nil {
		return zero, err
	}

	if value == nil {
		return zero, nil
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("field %s is %T, want %T", path, value, zero)
	}

	return typed, nil
}

func (j JSON) GetString(path string) (string, error) {
	return get[string](j, path)
}

func (j JSON) GetBool(path string) (bool, error) {
	return get[bool](j, path)
}

func (j JSON) GetJSON(path string) (JSON, error) {
	obj, err := get[map[string]any](j, path)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return JSON(obj), nil
}

func (j JSON) GetArray(path string) (Array, error) {
	arr, err := get[[]any](j, path)
	if err != nil {
		return nil, err
	}
	return Array(arr), nil
}

// GetInt accepts whole-number float64 values, which is how encoding/json
// decodes numbers into any.
func (j JSON) GetInt(path string) (int, error) {
	value, err := j.Get(path)
	if err != nil {
		return 0, err
	}

	switch n := value.(type) {
	case int:
		return n, nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("field %s is not a whole number", path)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("field %s is %T, want a number", path, value)
	}
}

func bytesToJSON(body []byte) (JSON, error) {
	result := JSON{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func bytesToArray(body []byte) (Array, error) {
	result := Array{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

type Response struct {
	Code    int
	Header  http.Header
	Body    any
	RawBody []byte
}
