package enum

import "strings"

// TenderType is the payment method of a payment or payment draft
type TenderType string

const (
	TenderCash        TenderType = "CASH"
	TenderDebit       TenderType = "DEBIT"
	TenderCredit      TenderType = "CREDIT"
	TenderTransfer    TenderType = "TRANSFER"
	TenderQR          TenderType = "QR"
	TenderStoreCredit TenderType = "STORE_CREDIT"
)

// TenderTypes lists every tender in display order
var TenderTypes = []TenderType{TenderCash, TenderDebit, TenderCredit, TenderTransfer, TenderQR, TenderStoreCredit}

func (t TenderType) Valid() bool {
	for _, v := range TenderTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ParseTenderType is case-insensitive and returns false for unknown values
func ParseTenderType(s string) (TenderType, bool) {
	t := TenderType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.Valid()
}

// HasSurcharge reports whether installment surcharge fields apply
func (t TenderType) HasSurcharge() bool {
	return t == TenderCredit
}
