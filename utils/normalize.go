package utils

import (
	"reflect"
	"strings"
)

// streetAbbreviations maps common address tokens to their long forms so the
// same storefront written two ways normalizes to one string before
// fingerprinting.
var streetAbbreviations = map[string]string{
	"st":   "street",
	"str":  "street",
	"ave":  "avenue",
	"av":   "avenue",
	"blvd": "boulevard",
	"rd":   "road",
	"dr":   "drive",
	"hwy":  "highway",
	"ln":   "lane",
}

// NormalizeAddress lowercases, strips punctuation, collapses whitespace and
// expands common street abbreviations. The result feeds the place fingerprint,
// so it must be deterministic for equivalent spellings.
func NormalizeAddress(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Map(func(r rune) rune {
		switch r {
		case ',', '.', ';', '#':
			return ' '
		}
		return r
	}, s)

	fields := strings.Fields(s)
	for i, tok := range fields {
		if long, ok := streetAbbreviations[tok]; ok {
			fields[i] = long
		}
	}
	return strings.Join(fields, " ")
}

// NormalizePhone keeps digits only, so "+1 (212) 555-0100" and "12125550100"
// resolve to the same cooldown identity.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePtrDTO trims *string fields on a pointer-to-struct DTO.
// Only non-nil pointer fields are touched; nils stay nil so GORM won't update them.
func NormalizePtrDTO(dto any) {
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr {
		return
	}
	s := v.Elem()
	if s.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if f.Kind() != reflect.Ptr || f.IsNil() {
			continue
		}
		ef := f.Elem()
		if ef.Kind() == reflect.String {
			ef.SetString(strings.TrimSpace(ef.String()))
		}
	}
}

// NormalizeDTO trims string fields on a pointer-to-struct DTO.
// Useful for create DTOs that use non-pointer fields.
func NormalizeDTO(dto any) {
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr {
		return
	}
	s := v.Elem()
	if s.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if f.Kind() == reflect.String && f.CanSet() {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}
