package urlcheck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{"https", "https://example.com/recipe", nil},
		{"http with port", "http://example.com:8080/r?id=1", nil},
		{"ftp rejected", "ftp://example.com/recipe", ErrScheme},
		{"relative rejected", "/recipes/pasta", ErrRelative},
		{"empty rejected", "   ", ErrEmpty},
		{"missing host", "https:///path", ErrNoHost},
		{"too long", "https://example.com/" + strings.Repeat("a", MaxURLLength), ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Validate(tt.url)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, parsed.Host)
		})
	}
}

func TestValidateUnparseable(t *testing.T) {
	_, err := Validate("http://exa mple.com/%zz")
	assert.Error(t, err)
}

func TestHostMatches(t *testing.T) {
	assert.True(t, HostMatches("fatafeat.com", "fatafeat.com"))
	assert.True(t, HostMatches("www.Fatafeat.com", "fatafeat.com"))
	assert.False(t, HostMatches("notfatafeat.com", "fatafeat.com"))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "https://example.com/img/a.jpg", Resolve("/img/a.jpg", "https://example.com/recipes/pasta"))
	assert.Equal(t, "https://cdn.example.com/a.jpg", Resolve("https://cdn.example.com/a.jpg#x", "https://example.com/"))
	assert.Equal(t, "img/a.jpg", Resolve("img/a.jpg", "not a url"))
	assert.Equal(t, "", Resolve("  ", "https://example.com/"))
}
