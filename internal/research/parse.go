package research

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SiteInfo is what one pass over a brand website yields.
type SiteInfo struct {
	BrandName       string
	Title           string
	Description     string
	InstagramHandle string
	TikTokHandle    string
	Category        string
	Confidence      float64
}

var (
	instagramRe = regexp.MustCompile(`instagram\.com/([A-Za-z0-9._]+)`)
	tiktokRe    = regexp.MustCompile(`tiktok\.com/@([A-Za-z0-9._]+)`)
)

// Pages that link their own share widgets produce these pseudo-handles.
var ignoredHandles = map[string]bool{
	"p":       true,
	"reel":    true,
	"share":   true,
	"explore": true,
	"stories": true,
}

var categoryKeywords = map[string][]string{
	"beauty":   {"beauty", "skincare", "cosmetics", "makeup", "fragrance"},
	"fashion":  {"fashion", "apparel", "clothing", "wear", "streetwear", "jewelry"},
	"food":     {"food", "snack", "beverage", "drink", "coffee", "tea", "kitchen"},
	"fitness":  {"fitness", "gym", "workout", "athletic", "sport", "supplement"},
	"home":     {"home", "furniture", "decor", "bedding", "candle"},
	"tech":     {"tech", "gadget", "electronics", "software", "app"},
	"wellness": {"wellness", "health", "vitamin", "sleep", "mindful"},
	"pets":     {"pet", "dog", "cat", "treats"},
}

// ParseWebsite extracts brand signals from an HTML document.
func ParseWebsite(r io.Reader) (*SiteInfo, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	info := &SiteInfo{}

	info.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if og, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
		info.BrandName = strings.TrimSpace(og)
	}
	if info.BrandName == "" {
		info.BrandName = ExtractBrandName(info.Title)
	}

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		info.Description = strings.TrimSpace(desc)
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if info.InstagramHandle == "" {
			if m := instagramRe.FindStringSubmatch(href); len(m) == 2 && !ignoredHandles[strings.ToLower(m[1])] {
				info.InstagramHandle = m[1]
			}
		}
		if info.TikTokHandle == "" {
			if m := tiktokRe.FindStringSubmatch(href); len(m) == 2 {
				info.TikTokHandle = m[1]
			}
		}
	})

	info.Category = GuessCategory(info.Title + " " + info.Description)
	info.Confidence = scoreConfidence(info)

	return info, nil
}

// ExtractBrandName strips the tagline from a page title, keeping the
// text before the first separator.
func ExtractBrandName(title string) string {
	for _, sep := range []string{" | ", " – ", " - ", " — ", ": "} {
		if idx := strings.Index(title, sep); idx > 0 {
			return strings.TrimSpace(title[:idx])
		}
	}
	return strings.TrimSpace(title)
}

// GuessCategory picks the category whose keywords appear most often in
// the text, empty when nothing matches.
func GuessCategory(text string) string {
	text = strings.ToLower(text)

	best := ""
	bestScore := 0
	for category, keywords := range categoryKeywords {
		score := 0
		for _, kw := range keywords {
			score += strings.Count(text, kw)
		}
		if score > bestScore || (score == bestScore && score > 0 && category < best) {
			best = category
			bestScore = score
		}
	}
	return best
}

func scoreConfidence(info *SiteInfo) float64 {
	score := 0.0
	if info.BrandName != "" {
		score += 0.3
	}
	if info.InstagramHandle != "" {
		score += 0.25
	}
	if info.TikTokHandle != "" {
		score += 0.25
	}
	if info.Category != "" {
		score += 0.2
	}
	return score
}
