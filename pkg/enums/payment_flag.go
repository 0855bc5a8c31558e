package enums

import "fmt"

// PaymentFlag tracks whether a cart row has been paid for.
type PaymentFlag string

const (
	PaymentFlagUnpaid PaymentFlag = "unpaid"
	PaymentFlagPaid   PaymentFlag = "paid"
)

var validPaymentFlags = []PaymentFlag{
	PaymentFlagUnpaid,
	PaymentFlagPaid,
}

// String implements fmt.Stringer.
func (p PaymentFlag) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentFlag.
func (p PaymentFlag) IsValid() bool {
	for _, candidate := range validPaymentFlags {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentFlag converts raw input into a PaymentFlag.
func ParsePaymentFlag(value string) (PaymentFlag, error) {
	for _, candidate := range validPaymentFlags {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment flag %q", value)
}
