// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"fmt"
	"strings"
)

// Brand is a device manufacturer. The underlying string is the lowercase
// token that gets persisted; String returns the display form.
type Brand string

const (
	BrandDell    Brand = "dell"
	BrandHP      Brand = "hp"
	BrandSamsung Brand = "samsung"
)

// Brands lists every known brand in display order.
func Brands() []Brand { return []Brand{BrandDell, BrandHP, BrandSamsung} }

func (b Brand) String() string { return strings.ToUpper(string(b)) }

// Valid reports whether b is one of the known brands.
func (b Brand) Valid() bool { return isKnown(b, Brands()) }

// ParseBrand accepts either the token or the display form, ignoring case.
func ParseBrand(s string) (Brand, error) {
	if b, ok := parseTag(s, Brands()); ok {
		return b, nil
	}
	return "", fmt.Errorf("unknown brand %q", s)
}

// DeviceType is the class of a device.
type DeviceType string

const (
	TypeComputer DeviceType = "computer"
	TypePhone    DeviceType = "phone"
	TypePrinter  DeviceType = "printer"
)

// DeviceTypes lists every known device type in display order.
func DeviceTypes() []DeviceType { return []DeviceType{TypeComputer, TypePhone, TypePrinter} }

func (t DeviceType) String() string { return strings.ToUpper(string(t)) }

// Valid reports whether t is one of the known device types.
func (t DeviceType) Valid() bool { return isKnown(t, DeviceTypes()) }

// ParseDeviceType accepts either the token or the display form, ignoring case.
func ParseDeviceType(s string) (DeviceType, error) {
	if t, ok := parseTag(s, DeviceTypes()); ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown device type %q", s)
}

// UsageStatus is the state of a single usage record.
type UsageStatus string

const (
	CheckedIn  UsageStatus = "checked_in"
	CheckedOut UsageStatus = "checked_out"
)

// UsageStatuses lists both statuses, open first.
func UsageStatuses() []UsageStatus { return []UsageStatus{CheckedIn, CheckedOut} }

// String returns "CHECKED IN" or "CHECKED OUT".
func (s UsageStatus) String() string {
	return strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
}

func (s UsageStatus) Valid() bool { return isKnown(s, UsageStatuses()) }

// ParseUsageStatus accepts "checked_in", "CHECKED IN" and the like.
func ParseUsageStatus(s string) (UsageStatus, error) {
	if st, ok := parseTag(s, UsageStatuses()); ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown usage status %q", s)
}

// JoinTags renders a list of tags by display form, e.g. "DELL, HP, SAMSUNG".
func JoinTags[T fmt.Stringer](tags []T) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, ", ")
}

type tag interface {
	~string
	fmt.Stringer
}

func parseTag[T tag](s string, known []T) (T, bool) {
	s = strings.TrimSpace(s)
	for _, k := range known {
		if strings.EqualFold(s, string(k)) || strings.EqualFold(s, k.String()) {
			return k, true
		}
	}
	var zero T
	return zero, false
}

func isKnown[T comparable](v T, known []T) bool {
	for _, k := range known {
		if k == v {
			return true
		}
	}
	return false
}
