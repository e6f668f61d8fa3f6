package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SubjectKind distinguishes the two kinds of billing subjects.
// Invoice numbering is scoped per kind and calendar year.
type SubjectKind int

const (
	SubjectKindCustomer     SubjectKind = 0
	SubjectKindManufacturer SubjectKind = 1
)

// ParseSubjectKind converts a string representation to a SubjectKind
func ParseSubjectKind(s string) (SubjectKind, bool) {
	switch s {
	case "customer":
		return SubjectKindCustomer, true
	case "manufacturer":
		return SubjectKindManufacturer, true
	}
	return SubjectKindCustomer, false
}

func (k SubjectKind) String() string {
	return [...]string{"customer", "manufacturer"}[k]
}

func (k SubjectKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *SubjectKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = SubjectKind(i)
		return nil
	}
	switch str {
	case "customer":
		*k = SubjectKindCustomer
	case "manufacturer":
		*k = SubjectKindManufacturer
	}
	return nil
}

func (k SubjectKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *SubjectKind) Scan(value interface{}) error {
	if value == nil {
		*k = SubjectKindCustomer
		return nil
	}
	switch v := value.(type) {
	case int64:
		*k = SubjectKind(v)
	case int:
		*k = SubjectKind(v)
	}
	return nil
}
