// Package patterns holds the frozen, case-insensitive regular expressions and
// weighted vocabularies the scorer, preprocessor, and cleanup stages share.
// Everything here is a package-level var built by regexp.MustCompile at
// program init, so it is safe for concurrent read access without a
// sync.Once: Go's own package initialization already gives that guarantee.
package patterns

import "regexp"

// Unlikely matches class/id tokens that usually mark boilerplate (nav,
// ads, sidebars, footers...). MaybeCandidate rescues a node that matches
// Unlikely but also looks like it could be the main content container.
var (
	Unlikely = regexp.MustCompile(`(?i)-ad-|ai2html|banner|breadcrumbs|combx|comment|community|cover-wrap|disqus|extra|footer|gdpr|header|legends|menu|related|remark|replies|rss|shoutbox|sidebar|skyscraper|social|sponsor|supplemental|ad-break|agegate|pagination|pager|popup|yom-remote`)

	MaybeCandidate = regexp.MustCompile(`(?i)and|article|body|column|content|main|shadow`)

	Positive = regexp.MustCompile(`(?i)article|body|content|entry|hentry|h-entry|main|page|pagination|post|text|blog|story`)

	Negative = regexp.MustCompile(`(?i)-ad-|hidden|^hid$| hid$| hid |^hid |banner|combx|comment|com-|contact|foot|footer|footnote|gdpr|masthead|media|meta|outbrain|promo|related|scroll|share|shoutbox|sidebar|skyscraper|sponsor|shopping|tags|tool|widget`)

	Extraneous = regexp.MustCompile(`(?i)print|archive|comment|discuss|e[\-]?mail|share|reply|all|login|sign|single|utility`)

	Byline = regexp.MustCompile(`(?i)byline|author|dateline|writtenby|p-author`)

	ShareElements = regexp.MustCompile(`(?i)(\b|_)(share|sharedaddy)(\b|_)`)

	NextLink = regexp.MustCompile(`(?i)(next|weiter|continue|>([^|]|$)|»([^|]|$))`)
	PrevLink = regexp.MustCompile(`(?i)(prev|earl|old|new|<|«)`)
)

// Normalize collapses runs of whitespace; Tokenize splits on non-word runs.
var (
	Normalize = regexp.MustCompile(`\s{2,}`)
	Tokenize  = regexp.MustCompile(`\W+`)
	Whitespace = regexp.MustCompile(`^\s*$`)
	HasContent = regexp.MustCompile(`\S$`)
)

// HashURL matches an in-page fragment link ("#section"), whose text
// dom.LinkDensity counts at a reduced weight rather than as a full outbound
// link.
var HashURL = regexp.MustCompile(`^#.+`)

// SrcsetURL tokenizes one candidate of a srcset attribute.
var SrcsetURL = regexp.MustCompile(`(\S+)(\s+[\d.]+[xw])?(\s*(?:,|$))`)

// B64DataURL matches a base64-encoded data: URI, which cleanup's size
// estimate treats specially since its length does not reflect network cost.
var B64DataURL = regexp.MustCompile(`^data:\s*([^\s;,]+)\s*;\s*base64\s*,`)

// AllowedVideoHosts is the default host allow-list for surviving <iframe>
// embeds during structural cleanup. Config.AllowedVideoHosts overrides it.
var AllowedVideoHosts = regexp.MustCompile(`(?i)//(www\.)?((dailymotion|youtube|youtube-nocookie|player\.vimeo|v\.qq)\.com|(archive|upload\.wikimedia)\.org|player\.twitch\.tv)`)

// JSONLDArticleTypes matches a schema.org @type that counts as an article
// for the purposes of JSON-LD metadata extraction.
var JSONLDArticleTypes = regexp.MustCompile(`^Article|AdvertiserContentArticle|NewsArticle|AnalysisNewsArticle|AskPublicNewsArticle|BackgroundNewsArticle|OpinionNewsArticle|ReportageNewsArticle|ReviewNewsArticle|Report|SatiricalArticle|ScholarlyArticle|MedicalScholarlyArticle|SocialMediaPosting|BlogPosting|LiveBlogPosting|DiscussionForumPosting|TechArticle|APIReference$`)

// DatePrefixes are leading labels stripped from a raw byline/date string
// before it is handed to the date parser.
var DatePrefixes = regexp.MustCompile(`(?i)^(published|updated|posted|date)\s*:?\s*|^by\s+`)

// TagsToScore are the element tags scoreNodes visits directly; every other
// element only ever receives score via propagation from a descendant.
var TagsToScore = map[string]bool{
	"SECTION": true, "H2": true, "H3": true, "H4": true, "H5": true, "H6": true,
	"P": true, "TD": true, "PRE": true,
}

// UnlikelyRoles are ARIA roles that mark a node as chrome rather than content.
var UnlikelyRoles = map[string]bool{
	"menu": true, "menubar": true, "complementary": true, "navigation": true,
	"alert": true, "alertdialog": true, "dialog": true,
}

// DivToPElems are block children whose presence inside a <div> disqualifies
// that div from being flattened into a <p>.
var DivToPElems = map[string]bool{
	"BLOCKQUOTE": true, "DL": true, "DIV": true, "IMG": true, "OL": true,
	"P": true, "PRE": true, "TABLE": true, "UL": true,
}

// AlterToDivExceptions are elements preparation never rewrites to <div>.
var AlterToDivExceptions = map[string]bool{
	"DIV": true, "ARTICLE": true, "SECTION": true, "P": true,
}

// PresentationalAttributes are stripped from every surviving element.
var PresentationalAttributes = []string{
	"align", "background", "bgcolor", "border", "cellpadding", "cellspacing",
	"frame", "hspace", "rules", "style", "valign", "vspace",
}

// DeprecatedSizeAttributeElems carry legacy width/height-ish attributes that
// cleanup strips so that layout falls entirely to the consuming renderer.
var DeprecatedSizeAttributeElems = map[string]bool{
	"TABLE": true, "TH": true, "TD": true, "HR": true, "PRE": true,
}

// PhrasingElems are inline-level elements; a block made up only of these (and
// text) is itself treated as phrasing content for the div->p promotion.
var PhrasingElems = map[string]bool{
	"ABBR": true, "AUDIO": true, "B": true, "BDO": true, "BR": true,
	"BUTTON": true, "CITE": true, "CODE": true, "DATA": true,
	"DATALIST": true, "DFN": true, "EM": true, "EMBED": true, "I": true,
	"IMG": true, "INPUT": true, "KBD": true, "LABEL": true, "MARK": true,
	"MATH": true, "METER": true, "NOSCRIPT": true, "OBJECT": true,
	"OUTPUT": true, "PROGRESS": true, "Q": true, "RUBY": true, "SAMP": true,
	"SCRIPT": true, "SELECT": true, "SMALL": true, "SPAN": true,
	"STRONG": true, "SUB": true, "SUP": true, "TEXTAREA": true, "TIME": true,
	"VAR": true, "WBR": true,
}

// ClassesToPreserve lists class names kept through attribute whitelisting by
// default even when the caller isn't preserving every class.
var ClassesToPreserve = []string{"page"}

// ImportantLinkPhrases are anchor texts salvaged from an otherwise-discarded
// footer/aside/nav when Config.PreserveImportantLinks is set.
var ImportantLinkPhrases = regexp.MustCompile(`(?i)more information|read more|continue reading|learn more`)
