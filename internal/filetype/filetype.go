// Package filetype maps a file identity to a grammar tag. Classification
// happens once per open or rename, never per edit: special filenames win
// over extensions, extensions win over sniffed media types, and everything
// falls back to the plain-text tag.
package filetype

import (
	"strings"

	"github.com/dshills/glint/internal/syntax/grammar"
)

// sidecarSuffix marks subtitle sidecar files that must never be
// highlighted, overriding every other classification step.
const sidecarSuffix = ".sub"

// Identity describes the file being classified. MediaType and ParentTypes
// come from content sniffing (see Sniff) and are only meaningful when
// Exists is true.
type Identity struct {
	// Name is the base filename.
	Name string

	// Path is the full path, symlinks already resolved.
	Path string

	// Exists reports whether the file is present on storage.
	Exists bool

	// MediaType is the sniffed media type, or empty.
	MediaType string

	// ParentTypes is the media type's parent chain, most specific first.
	ParentTypes []string
}

// specialFilenames maps exact base filenames (compared lower-cased) to
// grammar tags.
var specialFilenames = map[string]grammar.Tag{
	"makefile":       grammar.TagMakefile,
	"makefile.am":    grammar.TagMakefile,
	"makelist":       grammar.TagMakefile,
	"gnumakefile":    grammar.TagMakefile,
	"cmakelists.txt": grammar.TagCMake,
	"pkgbuild":       grammar.TagShell,
	"apkbuild":       grammar.TagShell,
	"fstab":          grammar.TagShell,
	"bashrc":         grammar.TagShell,
	"bash_profile":   grammar.TagShell,
	"bash_functions": grammar.TagShell,
	"bash_logout":    grammar.TagShell,
	"bash_aliases":   grammar.TagShell,
	"xprofile":       grammar.TagShell,
	"profile":        grammar.TagShell,
	"mkshrc":         grammar.TagShell,
	"zprofile":       grammar.TagShell,
	"zlogin":         grammar.TagShell,
	"zshrc":          grammar.TagShell,
	"zshenv":         grammar.TagShell,
	"changelog":      grammar.TagChangelog,
	"mirrorlist":     grammar.TagConfig,
	"dockerfile":     grammar.TagConfig,
}

// extEntry is one extension-table row. Matching is by suffix, so compound
// extensions like ".desktop.in" work; the longest match wins.
type extEntry struct {
	suffix        string
	caseSensitive bool
	tag           grammar.Tag
}

var extensions = []extEntry{
	{".sh", true, grammar.TagShell},
	{".bash", true, grammar.TagShell},
	{".zsh", true, grammar.TagShell},
	{".ebuild", true, grammar.TagShell},
	{".eclass", true, grammar.TagShell},
	{".mk", true, grammar.TagMakefile},
	{".cmake", true, grammar.TagCMake},
	{".c", true, grammar.TagC},
	{".h", true, grammar.TagCpp},
	{".cpp", true, grammar.TagCpp},
	{".cxx", true, grammar.TagCpp},
	{".py", true, grammar.TagPython},
	{".pl", true, grammar.TagPerl},
	{".rb", true, grammar.TagRuby},
	{".lua", true, grammar.TagLua},
	{".xml", false, grammar.TagXML},
	{".svg", false, grammar.TagXML},
	{".qrc", true, grammar.TagXML},
	{".rdf", true, grammar.TagXML},
	{".docbook", true, grammar.TagXML},
	{".htm", false, grammar.TagHTML},
	{".html", false, grammar.TagHTML},
	{".css", true, grammar.TagCSS},
	{".qss", true, grammar.TagCSS},
	{".js", true, grammar.TagJavaScript},
	{".json", true, grammar.TagJSON},
	{".yml", true, grammar.TagYAML},
	{".yaml", true, grammar.TagYAML},
	{".toml", true, grammar.TagTOML},
	{".md", true, grammar.TagMarkdown},
	{".mkd", true, grammar.TagMarkdown},
	{".markdown", true, grammar.TagMarkdown},
	{".diff", true, grammar.TagDiff},
	{".patch", true, grammar.TagDiff},
	{".tex", true, grammar.TagLaTeX},
	{".latex", true, grammar.TagLaTeX},
	{".desktop", true, grammar.TagDesktop},
	{".desktop.in", true, grammar.TagDesktop},
	{".directory", true, grammar.TagDesktop},
	{".service", true, grammar.TagConfig},
	{".mount", true, grammar.TagConfig},
	{".timer", true, grammar.TagConfig},
	{".conf", true, grammar.TagConfig},
	{".ini", false, grammar.TagConfig},
	{".go", true, grammar.TagGo},
	{".rs", true, grammar.TagRust},
}

// mediaTypes maps sniffed media types to grammar tags.
var mediaTypes = map[string]grammar.Tag{
	"application/x-shellscript": grammar.TagShell,
	"text/x-shellscript":        grammar.TagShell,
	"text/x-makefile":           grammar.TagMakefile,
	"text/x-cmake":              grammar.TagCMake,
	"text/x-c":                  grammar.TagC,
	"text/x-csrc":               grammar.TagC,
	"text/x-c++":                grammar.TagCpp,
	"text/x-c++src":             grammar.TagCpp,
	"text/x-c++hdr":             grammar.TagCpp,
	"text/x-chdr":               grammar.TagCpp,
	"application/x-perl":        grammar.TagPerl,
	"application/x-ruby":        grammar.TagRuby,
	"text/x-lua":                grammar.TagLua,
	"application/xml":           grammar.TagXML,
	"application/xml-dtd":       grammar.TagXML,
	"text/html":                 grammar.TagHTML,
	"application/xhtml+xml":     grammar.TagHTML,
	"text/css":                  grammar.TagCSS,
	"application/javascript":    grammar.TagJavaScript,
	"text/javascript":           grammar.TagJavaScript,
	"application/json":          grammar.TagJSON,
	"application/schema+json":   grammar.TagJSON,
	"application/x-yaml":        grammar.TagYAML,
	"text/x-yaml":               grammar.TagYAML,
	"application/toml":          grammar.TagTOML,
	"text/markdown":             grammar.TagMarkdown,
	"text/x-diff":               grammar.TagDiff,
	"text/x-patch":              grammar.TagDiff,
	"text/x-tex":                grammar.TagLaTeX,
	"application/x-desktop":     grammar.TagDesktop,
	"text/x-changelog":          grammar.TagChangelog,
	"text/x-go":                 grammar.TagGo,
	"text/rust":                 grammar.TagRust,
}

// Classify maps a file identity to a grammar tag. Steps, first match wins:
// sidecar suffix override, special filenames, longest extension suffix,
// sniffed media type with parent-chain fallback, and finally the plain
// text tag.
func Classify(id Identity) grammar.Tag {
	name := id.Name
	if name == "" && id.Path != "" {
		name = baseName(id.Path)
	}

	if hasSuffixFold(name, sidecarSuffix) {
		return grammar.TagText
	}

	if tag, ok := specialFilenames[strings.ToLower(name)]; ok {
		return tag
	}

	if tag, ok := matchExtension(name); ok {
		return tag
	}

	if id.Exists {
		if tag, ok := matchMediaType(id.MediaType, id.ParentTypes); ok {
			return tag
		}
	}

	return grammar.TagText
}

// matchExtension finds the longest matching suffix in the extension table,
// honoring each entry's case sensitivity.
func matchExtension(name string) (grammar.Tag, bool) {
	lower := strings.ToLower(name)
	best := -1
	var tag grammar.Tag
	for _, e := range extensions {
		matched := false
		if e.caseSensitive {
			matched = strings.HasSuffix(name, e.suffix)
		} else {
			matched = strings.HasSuffix(lower, e.suffix)
		}
		if matched && len(e.suffix) > best {
			best = len(e.suffix)
			tag = e.tag
		}
	}
	return tag, best >= 0
}

// matchMediaType looks the media type up in the table, falling back
// through its parent chain. Scripting-language subtype variants like
// text/x-python3 collapse into the canonical python tag.
func matchMediaType(mediaType string, parents []string) (grammar.Tag, bool) {
	if mediaType == "" {
		return grammar.TagNone, false
	}
	if strings.HasPrefix(mediaType, "text/x-python") {
		return grammar.TagPython, true
	}
	if tag, ok := mediaTypes[mediaType]; ok {
		return tag, true
	}
	for _, parent := range parents {
		if strings.HasPrefix(parent, "text/x-python") {
			return grammar.TagPython, true
		}
		if tag, ok := mediaTypes[parent]; ok {
			return tag, true
		}
	}
	return grammar.TagNone, false
}

func hasSuffixFold(s, suffix string) bool {
	return strings.HasSuffix(strings.ToLower(s), suffix)
}

func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
