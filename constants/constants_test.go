package constants

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInputMethod(t *testing.T) {
	tests := []struct {
		in   string
		want InputMethod
	}{
		{"photo_ocr", PhotoOCR},
		{" FREE_TEXT ", FreeText},
		{"guided_form", GuidedForm},
		{"ocr", PhotoOCR},
		{"form", GuidedForm},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInputMethod(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInputMethod_RejectsUnknown(t *testing.T) {
	_, err := ParseInputMethod("carrier_pigeon")
	assert.Error(t, err)
	assert.False(t, InputMethod("carrier_pigeon").Valid())
}

func TestInputMethod_UnmarshalJSON(t *testing.T) {
	var v struct {
		Method InputMethod `json:"method"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"method":"photo_ocr"}`), &v))
	assert.Equal(t, PhotoOCR, v.Method)

	err := json.Unmarshal([]byte(`{"method":"fax"}`), &v)
	assert.Error(t, err)
}

func TestParseExtractionQuality(t *testing.T) {
	q, err := ParseExtractionQuality("HIGH")
	require.NoError(t, err)
	assert.Equal(t, QualityHigh, q)

	_, err = ParseExtractionQuality("excellent")
	assert.Error(t, err)
}

func TestQualityFromCoverage(t *testing.T) {
	assert.Equal(t, QualityLow, QualityFromCoverage(0))
	assert.Equal(t, QualityLow, QualityFromCoverage(0.49))
	assert.Equal(t, QualityMedium, QualityFromCoverage(0.5))
	assert.Equal(t, QualityHigh, QualityFromCoverage(0.75))
	assert.Equal(t, QualityHigh, QualityFromCoverage(1))
}

func TestMapExtToFormat(t *testing.T) {
	assert.Equal(t, TEXT, MapExtToFormat(".TXT"))
	assert.Equal(t, IMAGE, MapExtToFormat("jpeg"))
	assert.Equal(t, PDF, MapExtToFormat(".pdf"))
	assert.Equal(t, "", MapExtToFormat(".docx"))
}
