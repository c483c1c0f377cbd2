package request

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/vibast-solutions/ms-go-plans/app/schema"
)

// EncodeForm flattens changes into form values using bracket notation for
// nested maps and slices, e.g. metadata[tier]=gold.
func EncodeForm(changes schema.Changes) url.Values {
	values := url.Values{}
	keys := make([]string, 0, len(changes))
	for key := range changes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		appendValue(values, key, changes[key])
	}
	return values
}

func appendValue(values url.Values, key string, value interface{}) {
	switch v := value.(type) {
	case nil:
		values.Add(key, "")
	case string:
		values.Add(key, v)
	case *string:
		if v == nil {
			values.Add(key, "")
			return
		}
		values.Add(key, *v)
	case bool:
		values.Add(key, strconv.FormatBool(v))
	case *bool:
		if v == nil {
			values.Add(key, "")
			return
		}
		values.Add(key, strconv.FormatBool(*v))
	case int:
		values.Add(key, strconv.Itoa(v))
	case int32:
		values.Add(key, strconv.FormatInt(int64(v), 10))
	case int64:
		values.Add(key, strconv.FormatInt(v, 10))
	case *int64:
		if v == nil {
			values.Add(key, "")
			return
		}
		values.Add(key, strconv.FormatInt(*v, 10))
	case uint:
		values.Add(key, strconv.FormatUint(uint64(v), 10))
	case uint64:
		values.Add(key, strconv.FormatUint(v, 10))
	case float32:
		values.Add(key, strconv.FormatFloat(float64(v), 'f', -1, 32))
	case float64:
		values.Add(key, strconv.FormatFloat(v, 'f', -1, 64))
	case json.Number:
		values.Add(key, v.String())
	case map[string]string:
		for _, k := range sortedKeys(v) {
			values.Add(key+"["+k+"]", v[k])
		}
	case map[string]interface{}:
		for _, k := range sortedKeys(v) {
			appendValue(values, key+"["+k+"]", v[k])
		}
	case schema.Changes:
		appendValue(values, key, map[string]interface{}(v))
	case []string:
		for i, item := range v {
			values.Add(key+"["+strconv.Itoa(i)+"]", item)
		}
	case []interface{}:
		for i, item := range v {
			appendValue(values, key+"["+strconv.Itoa(i)+"]", item)
		}
	default:
		values.Add(key, fmt.Sprint(v))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
