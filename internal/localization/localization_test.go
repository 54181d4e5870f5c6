package localization

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCatalogs(t *testing.T) {
	l, err := Embedded()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"en", "zh-TW"}, l.Languages())

	assert.Equal(t, "Match not found", l.GetString("en", "match_not_found"))
	assert.Equal(t, "找不到媒合紀錄", l.GetString("zh-TW", "match_not_found"))
}

func TestEmbeddedCatalogsHaveSameKeys(t *testing.T) {
	l, err := Embedded()
	require.NoError(t, err)

	for key := range l.translations["en"] {
		_, ok := l.translations["zh-TW"][key]
		assert.True(t, ok, "zh-TW is missing %q", key)
	}
	for key := range l.translations["zh-TW"] {
		_, ok := l.translations["en"][key]
		assert.True(t, ok, "en is missing %q", key)
	}
}

func TestGetStringFallback(t *testing.T) {
	fsys := fstest.MapFS{
		"i18n/en.json":    {Data: []byte(`{"hello":"Hello","only_en":"English only"}`)},
		"i18n/zh-TW.json": {Data: []byte(`{"hello":"你好"}`)},
		"i18n/README.md":  {Data: []byte("ignored")},
	}
	l, err := NewLocalizer(fsys, "i18n")
	require.NoError(t, err)

	assert.Equal(t, "你好", l.GetString("zh-TW", "hello"))
	assert.Equal(t, "English only", l.GetString("zh-TW", "only_en"))
	assert.Equal(t, "Hello", l.GetString("fr", "hello"))
	assert.Equal(t, "missing_key", l.GetString("en", "missing_key"))
}

func TestNewLocalizerErrors(t *testing.T) {
	_, err := NewLocalizer(fstest.MapFS{}, "nope")
	assert.Error(t, err)

	_, err = NewLocalizer(fstest.MapFS{"i18n/en.json": {Data: []byte("{broken")}}, "i18n")
	assert.Error(t, err)
}

func TestFromAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"zh-TW", "zh-TW"},
		{"zh", "zh-TW"},
		{"zh-CN,zh;q=0.9", "zh-TW"},
		{"en-US,en;q=0.9,zh-TW;q=0.8", "en"},
		{"fr-FR, zh-TW;q=0.5", "zh-TW"},
		{"de", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, FromAcceptLanguage(tt.header))
		})
	}
}
