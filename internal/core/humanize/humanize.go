// Package humanize turns canonical hashtags into display labels. Display
// only; canonical forms remain the identity everywhere else
package humanize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// overrides for compounds, initialisms, and unsegmented run-together tags
// that plain title casing mangles
var overrides = map[string]string{
	"seo":       "SEO",
	"sem":       "SEM",
	"b2b":       "B2B",
	"b2c":       "B2C",
	"saas":      "SaaS",
	"ai":        "AI",
	"ecommerce": "E-commerce",
	"crossfit":  "CrossFit",
	"youtube":   "YouTube",
	"tiktok":    "TikTok",
	"linkedin":  "LinkedIn",
	"instagram": "Instagram",
	"web3":      "Web3",
	"nft":       "NFT",
	"roi":       "ROI",

	"gestaodeleads":    "Gestão de Leads",
	"marketingdigital": "Marketing Digital",
	"digitalmarketing": "Digital Marketing",
	"personaltrainer":  "Personal Trainer",
	"socialmedia":      "Social Media",
	"contentmarketing": "Content Marketing",
	"growthhacking":    "Growth Hacking",
	"leadgeneration":   "Lead Generation",
	"afiliadodigital":  "Afiliado Digital",
}

var titler = cases.Title(language.Und)

// Hashtag renders a canonical tag for UI display: underscores become spaces,
// words are title-cased, known initialisms keep their house style
func Hashtag(canonical string) string {
	if canonical == "" {
		return ""
	}
	parts := strings.Split(canonical, "_")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if o, ok := overrides[p]; ok && o != "" {
			out = append(out, o)
			continue
		}
		out = append(out, titler.String(p))
	}
	return strings.Join(out, " ")
}

// Hashtags renders a batch, preserving order
func Hashtags(canonical []string) []string {
	if len(canonical) == 0 {
		return nil
	}
	out := make([]string, len(canonical))
	for i, c := range canonical {
		out[i] = Hashtag(c)
	}
	return out
}
