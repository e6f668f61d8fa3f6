package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentApproval is the tri-state approval status of a payment.
type PaymentApproval int

const (
	PaymentApprovalPending  PaymentApproval = 0
	PaymentApprovalApproved PaymentApproval = 1
	PaymentApprovalRejected PaymentApproval = 2
)

// ParsePaymentApproval converts a lowercase string to a PaymentApproval
func ParsePaymentApproval(s string) (PaymentApproval, bool) {
	switch s {
	case "pending":
		return PaymentApprovalPending, true
	case "approved":
		return PaymentApprovalApproved, true
	case "rejected":
		return PaymentApprovalRejected, true
	}
	return PaymentApprovalPending, false
}

func (a PaymentApproval) String() string {
	return [...]string{"Pending", "Approved", "Rejected"}[a]
}

func (a PaymentApproval) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *PaymentApproval) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*a = PaymentApproval(i)
		return nil
	}
	switch str {
	case "Pending":
		*a = PaymentApprovalPending
	case "Approved":
		*a = PaymentApprovalApproved
	case "Rejected":
		*a = PaymentApprovalRejected
	}
	return nil
}

func (a PaymentApproval) Value() (driver.Value, error) {
	return int64(a), nil
}

func (a *PaymentApproval) Scan(value interface{}) error {
	if value == nil {
		*a = PaymentApprovalPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*a = PaymentApproval(v)
	case int:
		*a = PaymentApproval(v)
	}
	return nil
}
