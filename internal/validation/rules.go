// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/toeirei/assetkeeper/internal/model"
)

const (
	minNameLength = 3
	nameBlacklist = "!@#$%^&*()_+=[]{}|\\:;\"'<>,.?/~`"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// registerRules registers the custom tags used in the input struct tags.
func registerRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"person_name": isPersonName,
		"email_shape": isEmailShape,
		"brand":       isBrand,
		"device_type": isDeviceType,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func isPersonName(fl validator.FieldLevel) bool {
	return IsName(fl.Field().String())
}

// IsName reports whether s has at least three characters, no digits and
// none of the blacklisted symbols.
func IsName(s string) bool {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < minNameLength {
		return false
	}
	for _, r := range s {
		if unicode.IsDigit(r) || strings.ContainsRune(nameBlacklist, r) {
			return false
		}
	}
	return true
}

func isEmailShape(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}

func isBrand(fl validator.FieldLevel) bool {
	_, err := model.ParseBrand(fl.Field().String())
	return err == nil
}

func isDeviceType(fl validator.FieldLevel) bool {
	_, err := model.ParseDeviceType(fl.Field().String())
	return err == nil
}
