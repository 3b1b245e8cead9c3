// Package grammar holds the static per-language lexing rules used by the
// syntax highlighting engine. Grammars are built once at startup, shared by
// reference across every document of the same language, and never mutated
// afterwards.
package grammar

import "regexp"

// Tag identifies which lexer ruleset applies to a document.
type Tag string

// Known grammar tags. A tag may exist without a Grammar entry; such
// documents render as plain neutral text.
const (
	TagNone       Tag = ""
	TagShell      Tag = "shell"
	TagMakefile   Tag = "makefile"
	TagCMake      Tag = "cmake"
	TagConfig     Tag = "config"
	TagDesktop    Tag = "desktop"
	TagChangelog  Tag = "changelog"
	TagC          Tag = "c"
	TagCpp        Tag = "cpp"
	TagPython     Tag = "python"
	TagPerl       Tag = "perl"
	TagRuby       Tag = "ruby"
	TagLua        Tag = "lua"
	TagXML        Tag = "xml"
	TagHTML       Tag = "html"
	TagCSS        Tag = "css"
	TagJavaScript Tag = "javascript"
	TagJSON       Tag = "json"
	TagYAML       Tag = "yaml"
	TagTOML       Tag = "toml"
	TagMarkdown   Tag = "markdown"
	TagDiff       Tag = "diff"
	TagLaTeX      Tag = "latex"
	TagGo         Tag = "go"
	TagRust       Tag = "rust"
	TagText       Tag = "text"
)

// Grammar describes the lexical surface of one language: which markers open
// comments and quotes, whether command substitution and heredocs exist, and
// the URL pattern overlaid on comments and quoted runs.
type Grammar struct {
	// Tag is the grammar's identifier in the registry.
	Tag Tag

	// CommentMark is the line comment marker, or empty for none.
	CommentMark byte

	// HasComment reports whether CommentMark is meaningful.
	HasComment bool

	// DoubleQuote enables double-quoted string runs.
	DoubleQuote bool

	// SingleQuote enables single-quoted string runs.
	SingleQuote bool

	// BackslashEscapes enables backslash escaping of quote markers.
	BackslashEscapes bool

	// CommandSubstitution enables nestable "$( ... )" groups.
	CommandSubstitution bool

	// Heredocs enables here-document tracking.
	Heredocs bool

	// URLPattern matches URLs and mail addresses overlaid on comment and
	// quoted runs. Nil disables the overlay.
	URLPattern *regexp.Regexp

	// HeredocDelim matches a heredoc operator with its delimiter word.
	// The first submatch captures the possibly quoted delimiter.
	HeredocDelim *regexp.Regexp
}

// urlPattern matches web URLs and mail addresses the way the highlighter
// colors them inside comments and quotes.
var urlPattern = regexp.MustCompile(
	`(?:(?:https?|ftps?|sftp)://|www\.)[A-Za-z0-9._~:/?#@!$&'()*+,;=%\[\]-]+` +
		`|[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+\.[A-Za-z0-9.-]+`)

// heredocDelim matches <<WORD, <<-WORD and the quoted forms <<'WORD' and
// <<"WORD". The submatch keeps any quote characters; the lexer strips them.
var heredocDelim = regexp.MustCompile(`^<<-?\s*("[A-Za-z0-9_]+"|'[A-Za-z0-9_]+'|\\?[A-Za-z0-9_]+)`)

// registry holds every grammar, keyed by tag. Populated once below and
// treated as read-only from then on.
var registry = map[Tag]*Grammar{
	TagShell: {
		Tag:                 TagShell,
		CommentMark:         '#',
		HasComment:          true,
		DoubleQuote:         true,
		SingleQuote:         true,
		BackslashEscapes:    true,
		CommandSubstitution: true,
		Heredocs:            true,
		URLPattern:          urlPattern,
		HeredocDelim:        heredocDelim,
	},
	TagMakefile: {
		Tag:              TagMakefile,
		CommentMark:      '#',
		HasComment:       true,
		DoubleQuote:      true,
		SingleQuote:      true,
		BackslashEscapes: true,
		URLPattern:       urlPattern,
	},
	TagCMake: {
		Tag:         TagCMake,
		CommentMark: '#',
		HasComment:  true,
		DoubleQuote: true,
		URLPattern:  urlPattern,
	},
	TagConfig: {
		Tag:         TagConfig,
		CommentMark: '#',
		HasComment:  true,
		DoubleQuote: true,
		SingleQuote: true,
		URLPattern:  urlPattern,
	},
	TagDesktop: {
		Tag:         TagDesktop,
		CommentMark: '#',
		HasComment:  true,
		URLPattern:  urlPattern,
	},
	TagYAML: {
		Tag:         TagYAML,
		CommentMark: '#',
		HasComment:  true,
		DoubleQuote: true,
		SingleQuote: true,
		URLPattern:  urlPattern,
	},
	TagTOML: {
		Tag:              TagTOML,
		CommentMark:      '#',
		HasComment:       true,
		DoubleQuote:      true,
		SingleQuote:      true,
		BackslashEscapes: true,
		URLPattern:       urlPattern,
	},
	TagPython: {
		Tag:              TagPython,
		CommentMark:      '#',
		HasComment:       true,
		DoubleQuote:      true,
		SingleQuote:      true,
		BackslashEscapes: true,
		URLPattern:       urlPattern,
	},
	TagPerl: {
		Tag:              TagPerl,
		CommentMark:      '#',
		HasComment:       true,
		DoubleQuote:      true,
		SingleQuote:      true,
		BackslashEscapes: true,
		URLPattern:       urlPattern,
	},
	TagRuby: {
		Tag:              TagRuby,
		CommentMark:      '#',
		HasComment:       true,
		DoubleQuote:      true,
		SingleQuote:      true,
		BackslashEscapes: true,
		URLPattern:       urlPattern,
	},
}

// Lookup returns the grammar for a tag. The returned grammar is shared and
// must not be modified.
func Lookup(tag Tag) (*Grammar, bool) {
	g, ok := registry[tag]
	return g, ok
}

// Shell returns the shell grammar, the structurally richest ruleset.
func Shell() *Grammar {
	return registry[TagShell]
}

// Tags returns every tag that has a registered grammar.
func Tags() []Tag {
	tags := make([]Tag, 0, len(registry))
	for tag := range registry {
		tags = append(tags, tag)
	}
	return tags
}
