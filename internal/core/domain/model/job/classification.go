package job

import (
	"fmt"
	"strings"

	"fieldwork/internal/pkg/errs"
)

// Type classifies the utility a job reads.
type Type int

const (
	TypeUnknown Type = iota
	TypeElectricity
	TypeGas
	TypeWater
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypeElectricity: "electricity",
		TypeGas:         "gas",
		TypeWater:       "water",
	}
}

// TypeFromString parses a job type from its wire name.
func TypeFromString(s string) (Type, error) {
	for t, name := range getTypeStrings() {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("job type",
		fmt.Errorf("%q is not a valid job type", s))
}

// Validate checks if the Type value is valid.
func (t Type) Validate() error {
	if _, ok := getTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("job type",
			fmt.Errorf("%d is not a valid job type", t))
	}
	return nil
}

func (t Type) String() string {
	if s, ok := getTypeStrings()[t]; ok {
		return s
	}
	return "unknown"
}

// Priority ranks how urgently a job should be visited.
type Priority int

const (
	PriorityUnknown Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
)

func getPriorityStrings() map[Priority]string {
	return map[Priority]string{
		PriorityLow:    "low",
		PriorityMedium: "medium",
		PriorityHigh:   "high",
	}
}

// PriorityFromString parses a priority from its wire name.
// An empty value defaults to PriorityMedium, matching the import path where the
// column is optional.
func PriorityFromString(s string) (Priority, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return PriorityMedium, nil
	}
	for p, name := range getPriorityStrings() {
		if name == trimmed {
			return p, nil
		}
	}
	return PriorityUnknown, errs.NewValueIsInvalidErrorWithCause("priority",
		fmt.Errorf("%q is not a valid priority", s))
}

// Validate checks if the Priority value is valid.
func (p Priority) Validate() error {
	if _, ok := getPriorityStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority",
			fmt.Errorf("%d is not a valid priority", p))
	}
	return nil
}

func (p Priority) String() string {
	if s, ok := getPriorityStrings()[p]; ok {
		return s
	}
	return "unknown"
}
