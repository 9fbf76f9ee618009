package typex

import (
	"fmt"
	"strconv"
)

// NullableBool is a boolean flag that remembers whether it was given at all,
// so an unset flag can fall back to the config file.
type NullableBool struct {
	Value *bool
}

func (nb *NullableBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	nb.Value = &v
	return nil
}

func (nb *NullableBool) String() string {
	if nb.Value == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v", *nb.Value)
}

func (nb *NullableBool) Val(defaultValue bool) bool {
	if nb.Value == nil {
		return defaultValue
	}
	return *nb.Value
}

func (nb *NullableBool) IsBoolFlag() bool {
	return true
}

// NullableString is a string flag that only overrides when given.
type NullableString struct {
	Value *string
}

func (ns *NullableString) Set(s string) error {
	ns.Value = &s
	return nil
}

func (ns *NullableString) String() string {
	if ns.Value == nil {
		return ""
	}
	return *ns.Value
}

func (ns *NullableString) Val(defaultValue string) string {
	if ns.Value == nil {
		return defaultValue
	}
	return *ns.Value
}
