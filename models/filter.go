package models

// FilterByClass returns the records whose Class exactly matches one of classes,
// in their original order. With no classes the input is returned as is.
// The input slice is never modified.
func FilterByClass(records []StudentRecord, classes []string) []StudentRecord {
	if len(classes) == 0 {
		return records
	}

	wanted := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		wanted[c] = struct{}{}
	}

	filtered := make([]StudentRecord, 0, len(records))
	for _, r := range records {
		if _, ok := wanted[r.Class]; ok {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
