package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SaleStatus is the lifecycle state of a sale. Sales are never deleted;
// voiding is a status.
type SaleStatus int

const (
	SaleStatusDraft     SaleStatus = 0
	SaleStatusConfirmed SaleStatus = 1
	SaleStatusVoid      SaleStatus = 2
)

var saleStatusNames = [...]string{"DRAFT", "CONFIRMED", "VOID"}

func (s SaleStatus) String() string {
	if s < 0 || int(s) >= len(saleStatusNames) {
		return fmt.Sprintf("SaleStatus(%d)", int(s))
	}
	return saleStatusNames[s]
}

// ParseSaleStatus accepts the upper-case name
func ParseSaleStatus(str string) (SaleStatus, bool) {
	for i, name := range saleStatusNames {
		if name == str {
			return SaleStatus(i), true
		}
	}
	return SaleStatusDraft, false
}

func (s SaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SaleStatus(i)
		return nil
	}
	parsed, ok := ParseSaleStatus(str)
	if !ok {
		return fmt.Errorf("unknown sale status %q", str)
	}
	*s = parsed
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SaleStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SaleStatus(v)
	case int32:
		*s = SaleStatus(v)
	case int:
		*s = SaleStatus(v)
	}
	return nil
}
