package config

import "maps"

// SiteConfig holds per-competitor fetch settings.
type SiteConfig struct {
	// Cookie is sent with every request to this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra HTTP headers for requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Paths replaces the global candidate paths for this site.
	Paths []string `yaml:"paths,omitempty"`
}

// DatabaseConfig selects the store.
type DatabaseConfig struct {
	Driver string `yaml:"driver,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
}

// ServerConfig configures `rivalscope serve`.
type ServerConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Schedule string `yaml:"schedule,omitempty"`
}

// File represents the structure of the .rivalscope configuration file.
type File struct {
	Owner     string         `yaml:"owner,omitempty"`
	UserAgent string         `yaml:"userAgent,omitempty"`
	Paths     []string       `yaml:"paths,omitempty"`
	Database  DatabaseConfig `yaml:"database,omitempty"`
	Server    ServerConfig   `yaml:"server,omitempty"`

	// Sites maps canonical competitor domains to their settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every site unless overridden in Sites.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Tables overrides parts of the built-in heuristic tables.
	Tables *TablesOverride `yaml:"tables,omitempty"`
}

// GetSiteConfig returns the configuration for a domain, merging the
// site-specific entry over the defaults.
func (cf *File) GetSiteConfig(domain string) SiteConfig {
	if cf == nil {
		return SiteConfig{}
	}
	result := SiteConfig{
		Cookie:  cf.Defaults.Cookie,
		Headers: maps.Clone(cf.Defaults.Headers),
		Paths:   cf.Defaults.Paths,
	}

	siteConfig, ok := cf.Sites[domain]
	if !ok {
		return result
	}
	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(siteConfig.Headers))
		}
		maps.Copy(result.Headers, siteConfig.Headers)
	}
	if len(siteConfig.Paths) > 0 {
		result.Paths = siteConfig.Paths
	}
	return result
}
