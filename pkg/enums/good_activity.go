package enums

import "fmt"

// GoodActivity marks whether a good is visible on the storefront.
type GoodActivity string

const (
	GoodActivityActive   GoodActivity = "active"
	GoodActivityInactive GoodActivity = "inactive"
)

var validGoodActivities = []GoodActivity{
	GoodActivityActive,
	GoodActivityInactive,
}

func (g GoodActivity) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GoodActivity.
func (g GoodActivity) IsValid() bool {
	for _, candidate := range validGoodActivities {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGoodActivity converts raw input into a GoodActivity.
func ParseGoodActivity(value string) (GoodActivity, error) {
	for _, candidate := range validGoodActivities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid good activity %q", value)
}
