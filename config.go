package readability

import (
	"regexp"
	"time"
)

// Config configures a Parser. The zero value is not valid; use
// DefaultConfig or New's functional options.
type Config struct {
	// CharThreshold is the minimum text length (in characters) the
	// selected content must reach before the algorithm accepts it; below
	// this, the orchestrator relaxes StripUnlikelys, then WeightClasses,
	// then CleanConditionally and retries.
	CharThreshold int

	// HoistThreshold is how far below the top candidate's score, as a
	// fraction of it, a parent's score may fall for the selector still to
	// promote that parent to be the article root instead (0.25: the parent
	// needs at least 75% of the top candidate's score).
	HoistThreshold float64

	// PreserveImportantLinks salvages "read more"/"continue reading"-shaped
	// links out of footers, asides, and nav elements that would otherwise
	// be discarded outright during cleanup.
	PreserveImportantLinks bool

	// KeepClasses disables class-attribute stripping entirely. When false
	// (the default), only ClassesToPreserve survives.
	KeepClasses bool

	// ClassesToPreserve lists class names kept on every element even when
	// KeepClasses is false.
	ClassesToPreserve []string

	// AllowedVideoHosts overrides the default embed host allow-list used to
	// decide which <iframe>/<object>/<embed> survive cleanup. ParseHTML's
	// preprocessing removes every <iframe> before cleanup runs, so there it
	// only affects <object>/<embed>; ParseWithSelector applies it to all three.
	AllowedVideoHosts *regexp.Regexp

	// MaxBufferSize caps how much input html.Parse will read before giving
	// up, protecting the parser from unbounded input.
	MaxBufferSize int

	// Timeout bounds the whole Parse call; exceeding it returns an error
	// without blocking the caller indefinitely.
	Timeout time.Duration

	// ContentDigest fills Article.ContentDigest with the hex-encoded
	// BLAKE3-256 hash of the sanitized Content, letting callers detect when
	// re-extracting the same URL produced identical content.
	ContentDigest bool

	// MinScore rejects the top candidate outright if its adjusted score
	// falls below this.
	MinScore float64

	// MaxTopCandidates bounds how many scored candidates the selector
	// considers when looking for siblings to fold in.
	MaxTopCandidates int

	// MinContentLength is the minimum text length an unlikely-candidate
	// node needs to be rescued from removal during preprocessing.
	MinContentLength int

	// PreserveImages keeps <img>, <picture>, and <figure> elements in the
	// output; when false, cleanup strips them like any other embed.
	PreserveImages bool

	// BaseURL resolves relative hrefs/srcs encountered during cleanup. Left
	// empty, relative URLs are passed through unchanged.
	BaseURL string
}

// DefaultConfig returns the configuration every Parser starts from:
// relaxation thresholds matched to the original Readability.js defaults, no
// important-link preservation, no class preservation beyond "page", a 1MB
// input cap, and a 30 second timeout.
func DefaultConfig() Config {
	return Config{
		CharThreshold:          500,
		HoistThreshold:         0.25,
		PreserveImportantLinks: false,
		KeepClasses:            false,
		ClassesToPreserve:      []string{"page"},
		MaxBufferSize:          1024 * 1024,
		Timeout:                30 * time.Second,
		ContentDigest:          false,
		MinScore:               20.0,
		MaxTopCandidates:       5,
		MinContentLength:       140,
		PreserveImages:         true,
	}
}

// Option configures a Config via the functional-options pattern.
type Option func(*Config)

// WithCharThreshold overrides Config.CharThreshold.
func WithCharThreshold(n int) Option {
	return func(c *Config) { c.CharThreshold = n }
}

// WithHoistThreshold overrides Config.HoistThreshold.
func WithHoistThreshold(ratio float64) Option {
	return func(c *Config) { c.HoistThreshold = ratio }
}

// WithPreserveImportantLinks enables Config.PreserveImportantLinks.
func WithPreserveImportantLinks(enable bool) Option {
	return func(c *Config) { c.PreserveImportantLinks = enable }
}

// WithKeepClasses enables Config.KeepClasses.
func WithKeepClasses(enable bool) Option {
	return func(c *Config) { c.KeepClasses = enable }
}

// WithClassesToPreserve overrides Config.ClassesToPreserve.
func WithClassesToPreserve(classes ...string) Option {
	return func(c *Config) { c.ClassesToPreserve = classes }
}

// WithAllowedVideoHosts overrides the embed-host allow-list.
func WithAllowedVideoHosts(pattern *regexp.Regexp) Option {
	return func(c *Config) { c.AllowedVideoHosts = pattern }
}

// WithMaxBufferSize overrides Config.MaxBufferSize.
func WithMaxBufferSize(size int) Option {
	return func(c *Config) { c.MaxBufferSize = size }
}

// WithTimeout overrides Config.Timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) { c.Timeout = timeout }
}

// WithContentDigest enables content-digest hashing.
func WithContentDigest(enable bool) Option {
	return func(c *Config) { c.ContentDigest = enable }
}

// WithMinScore overrides Config.MinScore.
func WithMinScore(min float64) Option {
	return func(c *Config) { c.MinScore = min }
}

// WithMaxTopCandidates overrides Config.MaxTopCandidates.
func WithMaxTopCandidates(n int) Option {
	return func(c *Config) { c.MaxTopCandidates = n }
}

// WithMinContentLength overrides Config.MinContentLength.
func WithMinContentLength(n int) Option {
	return func(c *Config) { c.MinContentLength = n }
}

// WithPreserveImages overrides Config.PreserveImages.
func WithPreserveImages(enable bool) Option {
	return func(c *Config) { c.PreserveImages = enable }
}

// WithBaseURL sets Config.BaseURL, used to resolve relative links during cleanup.
func WithBaseURL(base string) Option {
	return func(c *Config) { c.BaseURL = base }
}
