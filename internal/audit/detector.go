package audit

import "reflect"

// Diff compares two field maps and returns the names of the audited
// fields whose values differ. Comparison is value equality per field,
// restricted to auditedFields; other keys in either map are ignored.
// The result preserves the order of auditedFields. An empty result means
// "do not record".
func Diff(oldState, newState map[string]interface{}, auditedFields []string) []string {
	changed := make([]string, 0, len(auditedFields))
	for _, field := range auditedFields {
		if !reflect.DeepEqual(oldState[field], newState[field]) {
			changed = append(changed, field)
		}
	}
	return changed
}
