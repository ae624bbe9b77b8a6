package models

import (
	"strconv"
	"strings"
)

// StudentRecord represents one row of the student dataset
type StudentRecord struct {
	StudentID StudentID `json:"studentId"` // Numeric student ID, null when the source value was not a number
	Class     string    `json:"class"`     // Class label (e.g. "1A"), compared exactly
}

// StudentsResponse is the body returned by GET /api
type StudentsResponse struct {
	Students []StudentRecord `json:"students"`
}

// MessageResponse is the body returned by GET /
type MessageResponse struct {
	Message string `json:"message"`
}

// StudentID is an integer identifier that may be absent.
// The zero value is absent.
type StudentID struct {
	value int64
	valid bool
}

// NewStudentID returns a present StudentID holding v
func NewStudentID(v int64) StudentID {
	return StudentID{value: v, valid: true}
}

// ParseStudentID converts a raw source value into a StudentID.
// Empty or non-numeric input yields an absent ID; it never fails.
func ParseStudentID(raw string) StudentID {
	s := strings.TrimSpace(raw)
	if s == "" {
		return StudentID{}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return StudentID{}
	}
	return NewStudentID(v)
}

// Get returns the value and whether it is present
func (id StudentID) Get() (int64, bool) {
	return id.value, id.valid
}

// Valid reports whether the ID is present
func (id StudentID) Valid() bool {
	return id.valid
}

// String returns the decimal form, or "" when absent
func (id StudentID) String() string {
	if !id.valid {
		return ""
	}
	return strconv.FormatInt(id.value, 10)
}

// MarshalJSON renders the ID as a JSON number or null
func (id StudentID) MarshalJSON() ([]byte, error) {
	if !id.valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, id.value, 10), nil
}

// UnmarshalJSON accepts a JSON number or null
func (id *StudentID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*id = StudentID{}
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*id = NewStudentID(v)
	return nil
}
