package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentType represents the kind of monetary movement a payment records.
// Payback payments are returned deposits; only those get linked to invoices.
type PaymentType int

const (
	PaymentTypeProduct PaymentType = 0
	PaymentTypePayback PaymentType = 1
	PaymentTypeDeposit PaymentType = 2
)

// ParsePaymentType converts a string representation to a PaymentType
func ParsePaymentType(s string) (PaymentType, bool) {
	switch s {
	case "product":
		return PaymentTypeProduct, true
	case "payback":
		return PaymentTypePayback, true
	case "deposit":
		return PaymentTypeDeposit, true
	}
	return PaymentTypeProduct, false
}

func (t PaymentType) String() string {
	return [...]string{"product", "payback", "deposit"}[t]
}

func (t PaymentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *PaymentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = PaymentType(i)
		return nil
	}
	switch str {
	case "product":
		*t = PaymentTypeProduct
	case "payback":
		*t = PaymentTypePayback
	case "deposit":
		*t = PaymentTypeDeposit
	}
	return nil
}

func (t PaymentType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *PaymentType) Scan(value interface{}) error {
	if value == nil {
		*t = PaymentTypeProduct
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = PaymentType(v)
	case int:
		*t = PaymentType(v)
	}
	return nil
}
