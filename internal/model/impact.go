package model

import (
	"fmt"
	"strings"
)

// Impact is how much fixing an issue is expected to move a site's SEO.
// Higher values sort first when recommendations are ranked.
type Impact int

const (
	// ImpactLow marks polish items with a small expected effect.
	ImpactLow Impact = iota
	// ImpactMedium marks issues that noticeably hold a site back.
	ImpactMedium
	// ImpactHigh marks issues search engines penalize directly.
	ImpactHigh
)

// String returns the lowercase name of the impact level.
func (i Impact) String() string {
	switch i {
	case ImpactLow:
		return "low"
	case ImpactMedium:
		return "medium"
	case ImpactHigh:
		return "high"
	default:
		return "unknown"
	}
}

// MarshalText encodes the impact as its name so JSON reports read "high"
// instead of 2.
func (i Impact) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText parses a name produced by MarshalText.
func (i *Impact) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "low":
		*i = ImpactLow
	case "medium":
		*i = ImpactMedium
	case "high":
		*i = ImpactHigh
	default:
		return fmt.Errorf("unknown impact %q", string(text))
	}
	return nil
}

// Issue types raised by the on-page scorer and the technical analyzer.
const (
	IssueMissingTitle           = "missing_title"
	IssueShortTitle             = "short_title"
	IssueLongTitle              = "long_title"
	IssueMissingMetaDescription = "missing_meta_description"
	IssueShortMetaDescription   = "short_meta_description"
	IssueLongMetaDescription    = "long_meta_description"
	IssueMissingH1              = "missing_h1"
	IssueMissingAltText         = "missing_alt_text"
	IssueThinContent            = "thin_content"
	IssueMissingCanonical       = "missing_canonical"
	IssueFewInternalLinks       = "few_internal_links"

	IssueNoHTTPS               = "no_https"
	IssueSlowLoadTime          = "slow_load_time"
	IssueNoViewport            = "no_viewport"
	IssueNoSitemap             = "no_sitemap"
	IssueNoRobotsTxt           = "no_robots_txt"
	IssueNoHreflang            = "no_hreflang"
	IssueLowAltCoverage        = "low_alt_coverage"
	IssueNoStructuredData      = "no_structured_data"
	IssueLowDomainAuthority    = "low_domain_authority"
	IssueContentGap            = "content_gap"
	IssueFocalKeywords         = "focal_keywords"
	IssueIndustryPeerBacklinks = "industry_peer_backlinks"
)

// IssueInfo holds the impact and the recommendation text for an issue type.
type IssueInfo struct {
	Impact         Impact
	Recommendation string
}

// issueInfoMapping is the single table every component reads impact and
// wording from, so the scorer and the aggregator never disagree.
var issueInfoMapping = map[string]IssueInfo{
	IssueMissingTitle: {
		Impact:         ImpactHigh,
		Recommendation: "Add a unique <title> tag to every page.",
	},
	IssueMissingMetaDescription: {
		Impact:         ImpactHigh,
		Recommendation: "Write a meta description for every page to control the search snippet.",
	},
	IssueMissingH1: {
		Impact:         ImpactHigh,
		Recommendation: "Give every page exactly one H1 heading that states its topic.",
	},
	IssueNoHTTPS: {
		Impact:         ImpactHigh,
		Recommendation: "Serve the site over HTTPS and redirect plain HTTP requests.",
	},
	IssueSlowLoadTime: {
		Impact:         ImpactHigh,
		Recommendation: "Reduce homepage load time below 3 seconds (compress assets, enable caching).",
	},
	IssueNoViewport: {
		Impact:         ImpactHigh,
		Recommendation: "Add a viewport meta tag so the site renders on mobile devices.",
	},
	IssueLowDomainAuthority: {
		Impact:         ImpactHigh,
		Recommendation: "Build authority with guest posts, digital PR and partner links; domain authority is below 30.",
	},

	IssueShortTitle: {
		Impact:         ImpactMedium,
		Recommendation: "Lengthen page titles to 30-60 characters.",
	},
	IssueLongTitle: {
		Impact:         ImpactMedium,
		Recommendation: "Shorten page titles to 60 characters or fewer so they are not truncated.",
	},
	IssueShortMetaDescription: {
		Impact:         ImpactMedium,
		Recommendation: "Expand meta descriptions to 120-160 characters.",
	},
	IssueLongMetaDescription: {
		Impact:         ImpactMedium,
		Recommendation: "Trim meta descriptions to 160 characters or fewer.",
	},
	IssueMissingAltText: {
		Impact:         ImpactMedium,
		Recommendation: "Add descriptive alt text to every image.",
	},
	IssueThinContent: {
		Impact:         ImpactMedium,
		Recommendation: "Expand thin pages to at least 300 words of useful content.",
	},
	IssueNoSitemap: {
		Impact:         ImpactMedium,
		Recommendation: "Publish an XML sitemap and reference it from the page head and robots.txt.",
	},
	IssueNoRobotsTxt: {
		Impact:         ImpactMedium,
		Recommendation: "Add a robots.txt file to guide crawlers.",
	},
	IssueLowAltCoverage: {
		Impact:         ImpactMedium,
		Recommendation: "Raise image alt-text coverage above 80%.",
	},
	IssueNoStructuredData: {
		Impact:         ImpactMedium,
		Recommendation: "Add structured data (JSON-LD schema.org markup) to qualify for rich results.",
	},
	IssueContentGap: {
		Impact:         ImpactMedium,
		Recommendation: "Publish content covering topics the industry searches for but the site does not address.",
	},
	IssueFocalKeywords: {
		Impact:         ImpactMedium,
		Recommendation: "Optimize titles and headings around the site's focal keywords.",
	},

	IssueMissingCanonical: {
		Impact:         ImpactLow,
		Recommendation: "Add canonical link tags to avoid duplicate-content dilution.",
	},
	IssueFewInternalLinks: {
		Impact:         ImpactLow,
		Recommendation: "Add internal links between related pages (at least 3 per page).",
	},
	IssueNoHreflang: {
		Impact:         ImpactLow,
		Recommendation: "Add hreflang alternate tags if the site targets several languages or regions.",
	},
	IssueIndustryPeerBacklinks: {
		Impact:         ImpactLow,
		Recommendation: "Compare the backlink profile with industry peers to size the link-building effort.",
	},
}

// GetIssueInfo returns the impact and recommendation for an issue type.
// Unknown types are reported as low impact with a generic recommendation.
func GetIssueInfo(issueType string) IssueInfo {
	if info, ok := issueInfoMapping[issueType]; ok {
		return info
	}
	return IssueInfo{
		Impact:         ImpactLow,
		Recommendation: "Review this issue manually.",
	}
}

// GetImpact returns the impact level for an issue type.
func GetImpact(issueType string) Impact {
	return GetIssueInfo(issueType).Impact
}
