package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Language enumerates the languages the pipeline can localize supplier payloads
// and customer notifications into. It is a closed set: adding a language means
// adding a constant here and covering it in the switch statements below, so an
// unmatched case is caught at compile time rather than at runtime through a
// string-keyed map.
//
// Language is a value object; the zero value (LanguageUnknown) is invalid and
// is used to signal "no preference" on orders and suppliers.
type Language int

const (
	// LanguageUnknown represents an absent or undetermined language preference.
	LanguageUnknown Language = iota

	// LanguageEN is English, the default for supplier-facing payloads.
	LanguageEN

	// LanguagePTBR is Brazilian Portuguese, the default for customer notifications.
	LanguagePTBR

	// LanguageZHCN is Simplified Chinese. Suppliers resolved to this language get
	// customs/export fields added to their payloads.
	LanguageZHCN

	// LanguageES is Spanish.
	LanguageES
)

// Tag returns the BCP 47 tag used on the wire and in persistence.
func (l Language) Tag() string {
	switch l {
	case LanguageEN:
		return "en"
	case LanguagePTBR:
		return "pt-BR"
	case LanguageZHCN:
		return "zh-CN"
	case LanguageES:
		return "es"
	case LanguageUnknown:
		return ""
	}
	return ""
}

// String implements fmt.Stringer; unknown values render as "unknown".
func (l Language) String() string {
	if l == LanguageUnknown {
		return "unknown"
	}
	return l.Tag()
}

// Validate returns an error for values outside the defined set.
func (l Language) Validate() error {
	switch l {
	case LanguageEN, LanguagePTBR, LanguageZHCN, LanguageES:
		return nil
	case LanguageUnknown:
	}
	return errs.NewValueIsInvalidErrorWithCause("language",
		fmt.Errorf("%d is not a valid language", int(l)))
}

// LanguageFromTag parses a BCP 47 tag into a Language. Unrecognized tags map to
// LanguageUnknown without an error; callers treat that as "no preference".
func LanguageFromTag(tag string) Language {
	switch tag {
	case "en", "en-US", "en-GB":
		return LanguageEN
	case "pt", "pt-BR":
		return LanguagePTBR
	case "zh", "zh-CN":
		return LanguageZHCN
	case "es", "es-ES", "es-MX":
		return LanguageES
	}
	return LanguageUnknown
}

// LanguageForCountry returns the default language for an ISO 3166-1 alpha-2
// country code, or LanguageUnknown when no default is known.
func LanguageForCountry(country string) Language {
	switch country {
	case "BR", "PT":
		return LanguagePTBR
	case "CN":
		return LanguageZHCN
	case "ES", "MX", "AR", "CO", "CL":
		return LanguageES
	case "US", "GB", "AU", "CA":
		return LanguageEN
	}
	return LanguageUnknown
}
