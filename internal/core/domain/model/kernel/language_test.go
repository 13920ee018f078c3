package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguage_Tag(t *testing.T) {
	testCases := []struct {
		language kernel.Language
		tag      string
	}{
		{kernel.LanguageEN, "en"},
		{kernel.LanguagePTBR, "pt-BR"},
		{kernel.LanguageZHCN, "zh-CN"},
		{kernel.LanguageES, "es"},
		{kernel.LanguageUnknown, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.language.String(), func(t *testing.T) {
			assert.Equal(t, tc.tag, tc.language.Tag())
		})
	}
}

func TestLanguage_Validate(t *testing.T) {
	t.Run("valid_languages_pass", func(t *testing.T) {
		for _, l := range []kernel.Language{
			kernel.LanguageEN, kernel.LanguagePTBR, kernel.LanguageZHCN, kernel.LanguageES,
		} {
			require.NoError(t, l.Validate())
		}
	})

	t.Run("unknown_is_invalid", func(t *testing.T) {
		require.Error(t, kernel.LanguageUnknown.Validate())
	})

	t.Run("out_of_range_is_invalid", func(t *testing.T) {
		require.Error(t, kernel.Language(99).Validate())
	})
}

func TestLanguageFromTag(t *testing.T) {
	t.Run("parses_known_tags", func(t *testing.T) {
		assert.Equal(t, kernel.LanguagePTBR, kernel.LanguageFromTag("pt-BR"))
		assert.Equal(t, kernel.LanguagePTBR, kernel.LanguageFromTag("pt"))
		assert.Equal(t, kernel.LanguageZHCN, kernel.LanguageFromTag("zh"))
		assert.Equal(t, kernel.LanguageEN, kernel.LanguageFromTag("en-US"))
	})

	t.Run("unrecognized_tags_map_to_unknown", func(t *testing.T) {
		assert.Equal(t, kernel.LanguageUnknown, kernel.LanguageFromTag("fr"))
		assert.Equal(t, kernel.LanguageUnknown, kernel.LanguageFromTag(""))
	})
}

func TestLanguageForCountry(t *testing.T) {
	assert.Equal(t, kernel.LanguageZHCN, kernel.LanguageForCountry("CN"))
	assert.Equal(t, kernel.LanguagePTBR, kernel.LanguageForCountry("BR"))
	assert.Equal(t, kernel.LanguageES, kernel.LanguageForCountry("MX"))
	assert.Equal(t, kernel.LanguageEN, kernel.LanguageForCountry("US"))
	assert.Equal(t, kernel.LanguageUnknown, kernel.LanguageForCountry("DE"))
}
