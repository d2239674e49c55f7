package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	require.NoError(t, Load())

	assert.Equal(t, "Confirmation instructions", Translate("en", "CONFIRMATION_SUBJECT"))
	assert.Equal(t, "Instrucciones de confirmación", Translate("es", "CONFIRMATION_SUBJECT"))
	assert.Equal(t, "Someone has commented on your citizen proposal",
		T("en", "COMMENT_SUBJECT", T("en", "COMMENT_PROPOSAL")))

	assert.Equal(t, "NON_EXISTENT_KEY", Translate("es", "NON_EXISTENT_KEY"))
}

func TestMatch(t *testing.T) {
	require.NoError(t, Load())

	assert.Equal(t, "es", Match("es-MX"))
	assert.Equal(t, "en", Match("en-GB"))
	assert.Equal(t, "en", Match(""))
	assert.Equal(t, "en", Match("ja"))
}

func TestLoadTranslations_FallsBackToDefault(t *testing.T) {
	fsys := fstest.MapFS{
		"en/mailers.yaml": {Data: []byte("MAILERS:\n  ONLY_EN: \"english\"\n")},
		"fr/mailers.yaml": {Data: []byte("MAILERS:\n  OTHER: \"autre\"\n")},
	}
	require.NoError(t, LoadTranslations(fsys))
	t.Cleanup(func() { _ = Load() })

	assert.Equal(t, "english", Translate("fr", "ONLY_EN"))
	assert.Equal(t, "autre", T("fr-CA", "OTHER"))
}

func TestLoadTranslations_InvalidYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"xx/mailers.yaml": {Data: []byte("MAILERS: [unclosed")},
	}
	assert.Error(t, LoadTranslations(fsys))
}
