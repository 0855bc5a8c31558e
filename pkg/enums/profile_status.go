package enums

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProfileStatus is the spend tier attached to a wallet profile.
type ProfileStatus string

const (
	ProfileStatusStandard ProfileStatus = "standard"
	ProfileStatusSilver   ProfileStatus = "silver"
	ProfileStatusGold     ProfileStatus = "gold"
)

var (
	silverThreshold = decimal.NewFromInt(1000)
	goldThreshold   = decimal.NewFromInt(5000)
)

var validProfileStatuses = []ProfileStatus{
	ProfileStatusStandard,
	ProfileStatusSilver,
	ProfileStatusGold,
}

func (p ProfileStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProfileStatus.
func (p ProfileStatus) IsValid() bool {
	for _, candidate := range validProfileStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProfileStatus converts raw input into a ProfileStatus.
func ParseProfileStatus(value string) (ProfileStatus, error) {
	for _, candidate := range validProfileStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid profile status %q", value)
}

// StatusForSpend derives the tier from the cumulative amount spent.
func StatusForSpend(totalSpent decimal.Decimal) ProfileStatus {
	switch {
	case totalSpent.GreaterThanOrEqual(goldThreshold):
		return ProfileStatusGold
	case totalSpent.GreaterThanOrEqual(silverThreshold):
		return ProfileStatusSilver
	default:
		return ProfileStatusStandard
	}
}
