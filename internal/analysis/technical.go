package analysis

import (
	"context"
	"strings"

	"github.com/nao1215/rivalscope/internal/model"
)

// SlowLoadThresholdMs is the homepage latency above which a site is slow.
const SlowLoadThresholdMs = 3000

// RobotsChecker probes robots.txt reachability.
// *crawler.Fetcher implements it.
type RobotsChecker interface {
	RobotsTxt(ctx context.Context, domain string) (bool, error)
}

// TechnicalAnalyzer inspects the homepage for protocol and markup signals.
type TechnicalAnalyzer struct {
	robots RobotsChecker
}

// NewTechnicalAnalyzer creates an analyzer. robots may be nil, in which case
// the robots.txt check is always skipped.
func NewTechnicalAnalyzer(robots RobotsChecker) *TechnicalAnalyzer {
	return &TechnicalAnalyzer{robots: robots}
}

// Analyze runs every check independently. A nil homepage (the root path
// failed to fetch) yields a record where every check is skipped with its
// zero value. It never returns an error.
func (a *TechnicalAnalyzer) Analyze(ctx context.Context, domain string, home *model.PageRecord) model.TechnicalSEO {
	if home == nil {
		return SkippedTechnicalSEO("homepage could not be fetched")
	}

	tech := model.TechnicalSEO{
		LoadTimeMs:      model.Ok(home.Latency.Milliseconds()),
		HTTPS:           model.Ok(strings.HasPrefix(strings.ToLower(home.FinalURL), "https://")),
		Canonical:       model.Ok(home.Canonical != ""),
		Sitemap:         model.Ok(home.HasSitemapLink),
		Hreflang:        model.Ok(len(home.Hreflangs) > 0),
		StructuredData:  model.Ok(home.HasStructuredData),
		MobileFriendly:  model.Ok(home.HasViewport),
		AltTextCoverage: model.Ok(AltCoverage(home.Images, home.ImagesWithAlt)),
	}
	if home.FinalURL == "" {
		tech.HTTPS = model.Skipped[bool]("final URL unknown")
	}

	tech.RobotsTxt = a.checkRobots(ctx, domain)
	return tech
}

func (a *TechnicalAnalyzer) checkRobots(ctx context.Context, domain string) model.Result[bool] {
	if a.robots == nil {
		return model.Skipped[bool]("robots.txt check disabled")
	}
	ok, err := a.robots.RobotsTxt(ctx, domain)
	if err != nil {
		return model.Skipped[bool](err.Error())
	}
	return model.Ok(ok)
}

// AltCoverage returns images-with-alt / images as a percentage.
// A page without images is fully covered.
func AltCoverage(images, withAlt int) float64 {
	if images <= 0 {
		return 100
	}
	return clampFloat(float64(withAlt)/float64(images)*100, 0, 100)
}

// SkippedTechnicalSEO returns the all-false/zero fallback record.
func SkippedTechnicalSEO(reason string) model.TechnicalSEO {
	return model.TechnicalSEO{
		LoadTimeMs:      model.Skipped[int64](reason),
		HTTPS:           model.Skipped[bool](reason),
		Canonical:       model.Skipped[bool](reason),
		Sitemap:         model.Skipped[bool](reason),
		RobotsTxt:       model.Skipped[bool](reason),
		Hreflang:        model.Skipped[bool](reason),
		StructuredData:  model.Skipped[bool](reason),
		MobileFriendly:  model.Skipped[bool](reason),
		AltTextCoverage: model.Skipped[float64](reason),
	}
}
