package services

import (
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/supplier"
)

// PhoneLocales resolves a language from an international phone number.
// Implementations inspect the country calling code prefix.
type PhoneLocales interface {
	LanguageByPhone(phone string) kernel.Language
}

// PrefixPhoneLocales resolves languages from the country calling code of a
// phone number in international format. Unknown prefixes resolve to
// LanguageUnknown so callers fall through to the next detection step.
type PrefixPhoneLocales struct{}

// NewPrefixPhoneLocales creates the built-in prefix-table resolver.
func NewPrefixPhoneLocales() PrefixPhoneLocales {
	return PrefixPhoneLocales{}
}

// LanguageByPhone maps the calling-code prefix to a language. Longer prefixes
// are checked first so +351 (Portugal) does not match +35.
func (PrefixPhoneLocales) LanguageByPhone(phone string) kernel.Language {
	phone = strings.TrimSpace(phone)
	if !strings.HasPrefix(phone, "+") {
		return kernel.LanguageUnknown
	}

	switch {
	case strings.HasPrefix(phone, "+351"):
		return kernel.LanguagePTBR
	case strings.HasPrefix(phone, "+55"):
		return kernel.LanguagePTBR
	case strings.HasPrefix(phone, "+86"):
		return kernel.LanguageZHCN
	case strings.HasPrefix(phone, "+34"), strings.HasPrefix(phone, "+52"),
		strings.HasPrefix(phone, "+54"), strings.HasPrefix(phone, "+57"):
		return kernel.LanguageES
	case strings.HasPrefix(phone, "+1"), strings.HasPrefix(phone, "+44"),
		strings.HasPrefix(phone, "+61"):
		return kernel.LanguageEN
	}
	return kernel.LanguageUnknown
}

// SupplierLanguage resolves the language a supplier-facing payload should be
// written in. Detection steps, first match wins:
//
//  1. the supplier's country code
//  2. the supplier's explicit language preference
//  3. the calling-code prefix of the supplier's phone
//  4. a ".cn" endpoint domain hints at Chinese
//
// No match falls back to English, the lingua franca of supplier APIs.
func SupplierLanguage(s *supplier.Supplier, phones PhoneLocales) kernel.Language {
	if language := kernel.LanguageForCountry(s.Country()); language != kernel.LanguageUnknown {
		return language
	}
	if language := s.Language(); language != kernel.LanguageUnknown {
		return language
	}
	if phones != nil {
		if language := phones.LanguageByPhone(s.Phone()); language != kernel.LanguageUnknown {
			return language
		}
	}
	if endpointHintsChinese(s.Endpoint()) {
		return kernel.LanguageZHCN
	}
	return kernel.LanguageEN
}

// CustomerLanguage resolves the language a customer notification should be
// written in. Detection steps, first match wins: explicit preference, country
// default, phone prefix. No match falls back to Brazilian Portuguese, the
// shop's home market.
func CustomerLanguage(preference kernel.Language, country, phone string, phones PhoneLocales) kernel.Language {
	if preference != kernel.LanguageUnknown {
		return preference
	}
	if language := kernel.LanguageForCountry(country); language != kernel.LanguageUnknown {
		return language
	}
	if phones != nil {
		if language := phones.LanguageByPhone(phone); language != kernel.LanguageUnknown {
			return language
		}
	}
	return kernel.LanguagePTBR
}

func endpointHintsChinese(endpoint string) bool {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	host, _, found := strings.Cut(endpoint, "/")
	if !found {
		host = endpoint
	}
	host, _, _ = strings.Cut(host, ":")
	return strings.HasSuffix(host, ".cn")
}
