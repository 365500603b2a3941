package anon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCascadeOrder(t *testing.T) {
	tests := []struct {
		name   string
		column string
		value  string
		want   Classification
	}{
		{"utm column name", "campaign_source", "social_facebook", ClassUTM},
		{"utm match is case-insensitive", "UTM_Source", "google", ClassUTM},
		{"utm column wins over id-shaped value", "utm_content", "a-b-c-d-e", ClassUTM},
		{"medium indicator", "ad_medium", "cpc", ClassUTM},

		{"long value is identifier", "account_ref", strings.Repeat("x", 21), ClassIdentifier},
		{"two hyphens is identifier", "account_ref", "a-b-c", ClassIdentifier},
		{"two underscores with digit is identifier", "account_ref", "ab_cd_e1", ClassIdentifier},

		{"two underscores without digit is category", "account_ref", "ab_cd_ef", ClassCategory},
		{"short alnum is category", "region", "North", ClassCategory},
		{"separators are stripped before alnum check", "region", "north east-1", ClassCategory},
		{"exactly 20 chars is still category", "region", strings.Repeat("a", 20), ClassCategory},
		{"roman numeral is category", "region", "zone Ⅷ", ClassCategory},
		{"vulgar fraction is category", "size", "½", ClassCategory},

		{"punctuation falls through to generic", "region", "foo@bar", ClassGeneric},
		{"separators only is generic", "region", "__", ClassGeneric},
		{"free text with comma is generic", "note", "hello, world", ClassGeneric},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.column, tc.value))
		})
	}
}

func TestClassificationString(t *testing.T) {
	assert.Equal(t, "utm", ClassUTM.String())
	assert.Equal(t, "identifier", ClassIdentifier.String())
	assert.Equal(t, "category", ClassCategory.String())
	assert.Equal(t, "generic", ClassGeneric.String())
}

func TestGeneratorDispatchIsTotal(t *testing.T) {
	for _, class := range []Classification{ClassUTM, ClassIdentifier, ClassCategory, ClassGeneric} {
		assert.NotNil(t, generators[class], "no generator for classification %s", class)
	}
}
