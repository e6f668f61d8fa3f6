package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderState represents the lifecycle state of an order detail.
// Transitions are monotonic: OrderPlaced -> OrderListSent -> Billed.
type OrderState int

const (
	OrderStateOrderPlaced   OrderState = 0
	OrderStateOrderListSent OrderState = 1
	OrderStateBilled        OrderState = 2
)

// UnbilledOrderStates are the states an order detail can be in before it
// is included in an invoice.
func UnbilledOrderStates() []OrderState {
	return []OrderState{OrderStateOrderPlaced, OrderStateOrderListSent}
}

func (s OrderState) String() string {
	return [...]string{"OrderPlaced", "OrderListSent", "Billed"}[s]
}

func (s OrderState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderState(i)
		return nil
	}
	switch str {
	case "OrderPlaced":
		*s = OrderStateOrderPlaced
	case "OrderListSent":
		*s = OrderStateOrderListSent
	case "Billed":
		*s = OrderStateBilled
	}
	return nil
}

func (s OrderState) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderState) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStateOrderPlaced
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderState(v)
	case int:
		*s = OrderState(v)
	}
	return nil
}
