// Package schema describes which fields of a remote resource may be sent
// for each operation, and filters outgoing changes accordingly.
package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Operation string

const (
	Create   Operation = "create"
	Retrieve Operation = "retrieve"
	Update   Operation = "update"
)

var ErrFieldNotPermitted = errors.New("field not permitted")

// Changes is the set of field values sent with a create or update call.
type Changes map[string]interface{}

// Schema maps a field name to the operations that may carry it.
type Schema map[string][]Operation

func (s Schema) Allows(field string, op Operation) bool {
	for _, allowed := range s[field] {
		if allowed == op {
			return true
		}
	}
	return false
}

// Fields returns the sorted names of all fields permitted for op.
func (s Schema) Fields(op Operation) []string {
	fields := make([]string, 0, len(s))
	for field := range s {
		if s.Allows(field, op) {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}

// Cast keeps only the keys permitted for op. A nil value is kept as an empty
// string when the key is listed in nullable, and dropped otherwise. The
// second return value lists every dropped key in sorted order.
func (s Schema) Cast(changes Changes, op Operation, nullable []string) (Changes, []string) {
	result := make(Changes, len(changes))
	dropped := make([]string, 0)

	for key, value := range changes {
		if !s.Allows(key, op) {
			dropped = append(dropped, key)
			continue
		}
		if value == nil {
			if contains(nullable, key) {
				result[key] = ""
			} else {
				dropped = append(dropped, key)
			}
			continue
		}
		result[key] = value
	}

	sort.Strings(dropped)
	return result, dropped
}

// Check reports every key in changes that op may not send.
func (s Schema) Check(changes Changes, op Operation) error {
	rejected := make([]string, 0)
	for key := range changes {
		if !s.Allows(key, op) {
			rejected = append(rejected, key)
		}
	}
	if len(rejected) == 0 {
		return nil
	}

	sort.Strings(rejected)
	return fmt.Errorf("%w for %s: %s", ErrFieldNotPermitted, op, strings.Join(rejected, ", "))
}

func contains(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}
