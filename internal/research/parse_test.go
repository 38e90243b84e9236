package research

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Glow Labs | Clean Skincare for Every Day</title>
	<meta name="description" content="Glow Labs makes clean skincare and cosmetics loved by millions.">
</head>
<body>
	<a href="https://www.instagram.com/p/Cxyz123/">latest post</a>
	<a href="https://www.instagram.com/glowlabs">Instagram</a>
	<a href="https://www.tiktok.com/@glowlabs.official">TikTok</a>
</body>
</html>`

func TestParseWebsite(t *testing.T) {
	info, err := ParseWebsite(strings.NewReader(samplePage))
	require.NoError(t, err)

	assert.Equal(t, "Glow Labs", info.BrandName)
	assert.Equal(t, "glowlabs", info.InstagramHandle, "share links like /p/ must be skipped")
	assert.Equal(t, "glowlabs.official", info.TikTokHandle)
	assert.Equal(t, "beauty", info.Category)
	assert.InDelta(t, 1.0, info.Confidence, 0.001)
}

func TestParseWebsitePrefersOGSiteName(t *testing.T) {
	page := `<html><head>
		<title>Home - Shop Now</title>
		<meta property="og:site_name" content="Acme Snacks">
	</head><body></body></html>`

	info, err := ParseWebsite(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "Acme Snacks", info.BrandName)
}

func TestParseWebsiteMinimalPage(t *testing.T) {
	info, err := ParseWebsite(strings.NewReader(`<html><head><title>Somebrand</title></head><body></body></html>`))
	require.NoError(t, err)

	assert.Equal(t, "Somebrand", info.BrandName)
	assert.Empty(t, info.InstagramHandle)
	assert.Empty(t, info.TikTokHandle)
	assert.Empty(t, info.Category)
	assert.InDelta(t, 0.3, info.Confidence, 0.001)
}

func TestExtractBrandName(t *testing.T) {
	cases := map[string]string{
		"Acme | Best Widgets":        "Acme",
		"Acme - Best Widgets":        "Acme",
		"Acme – Best Widgets":        "Acme",
		"Acme: Widgets for everyone": "Acme",
		"Acme":                       "Acme",
		"  Acme  ":                   "Acme",
	}
	for in, want := range cases {
		assert.Equal(t, want, ExtractBrandName(in), "title %q", in)
	}
}

func TestGuessCategory(t *testing.T) {
	assert.Equal(t, "fitness", GuessCategory("premium gym and workout supplements"))
	assert.Equal(t, "food", GuessCategory("small batch coffee and tea"))
	assert.Empty(t, GuessCategory("completely unrelated words"))
}
