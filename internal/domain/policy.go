package domain

import "fmt"

// Policy selects the direction of the generated rule-set: an allow policy
// accepts only listed traffic, a block policy drops it.
type Policy string

const (
	PolicyAllow Policy = "allow"
	PolicyBlock Policy = "block"
)

func ParsePolicy(raw string) (Policy, error) {
	switch Policy(raw) {
	case PolicyAllow:
		return PolicyAllow, nil
	case PolicyBlock:
		return PolicyBlock, nil
	default:
		return "", fmt.Errorf("unknown policy %q (want %q or %q)", raw, PolicyAllow, PolicyBlock)
	}
}

func (p Policy) String() string {
	return string(p)
}
