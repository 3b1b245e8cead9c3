package filetype

import (
	"os"
	"path/filepath"

	"github.com/go-enry/go-enry/v2"
)

// sniffLimit caps how much file content is read for sniffing.
const sniffLimit = 16 * 1024

// classifierCandidates bounds the languages the content classifier
// considers; sniffing only has to produce a media type the tables know.
var classifierCandidates = []string{
	"Shell", "Makefile", "CMake", "Python", "Perl", "Ruby", "Lua",
	"C", "C++", "JavaScript", "JSON", "YAML", "TOML", "XML", "HTML",
	"CSS", "Markdown", "Diff", "TeX", "Go", "Rust", "INI", "Text",
}

// languageMediaTypes translates sniffed language names into the media
// types the classification tables are keyed by.
var languageMediaTypes = map[string]string{
	"Shell":      "application/x-shellscript",
	"Makefile":   "text/x-makefile",
	"CMake":      "text/x-cmake",
	"Python":     "text/x-python3",
	"Perl":       "application/x-perl",
	"Ruby":       "application/x-ruby",
	"Lua":        "text/x-lua",
	"C":          "text/x-csrc",
	"C++":        "text/x-c++src",
	"XML":        "application/xml",
	"HTML":       "text/html",
	"CSS":        "text/css",
	"JavaScript": "application/javascript",
	"JSON":       "application/json",
	"YAML":       "application/x-yaml",
	"TOML":       "application/toml",
	"Markdown":   "text/markdown",
	"Diff":       "text/x-diff",
	"TeX":        "text/x-tex",
	"Go":         "text/x-go",
	"Rust":       "text/rust",
	"INI":        "text/x-ini",
}

// mediaTypeParents records each media type's parent, most types bottoming
// out at text/plain. Used to build the parent chain the table lookup falls
// back through.
var mediaTypeParents = map[string]string{
	"text/x-python3":            "text/x-python",
	"text/x-python":             "text/plain",
	"text/x-csrc":               "text/x-c",
	"text/x-c++src":             "text/x-c++",
	"text/x-c++":                "text/x-c",
	"text/x-c":                  "text/plain",
	"application/x-shellscript": "text/x-shellscript",
	"text/x-shellscript":        "text/plain",
	"application/x-perl":        "text/plain",
	"application/x-ruby":        "text/plain",
	"application/javascript":    "text/javascript",
	"text/javascript":           "text/plain",
	"application/schema+json":   "application/json",
	"application/json":          "text/plain",
	"application/xhtml+xml":     "application/xml",
	"text/x-ini":                "text/plain",
}

// Sniff builds the classifier input for a path: base name, resolved path,
// existence, and, when the file exists, a content-sniffed media type with
// its parent chain. Shebangs are checked first; otherwise a bayesian
// content classifier picks among the candidate languages.
func Sniff(path string) Identity {
	id := Identity{Name: filepath.Base(path), Path: path}

	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		id.Path = resolved
		id.Name = filepath.Base(resolved)
	}

	content, err := readHead(id.Path, sniffLimit)
	if err != nil {
		return id
	}
	id.Exists = true

	lang, ok := enry.GetLanguageByShebang(content)
	if !ok {
		lang, ok = enry.GetLanguageByClassifier(content, classifierCandidates)
	}
	if !ok || lang == "" {
		return id
	}

	mediaType, known := languageMediaTypes[lang]
	if !known {
		mediaType = enry.GetMIMEType(id.Path, lang)
	}
	id.MediaType = mediaType
	id.ParentTypes = ParentChain(mediaType)
	return id
}

// ParentChain returns the parent media types of mediaType, most specific
// first, excluding mediaType itself.
func ParentChain(mediaType string) []string {
	var chain []string
	seen := map[string]struct{}{mediaType: {}}
	for {
		parent, ok := mediaTypeParents[mediaType]
		if !ok {
			return chain
		}
		if _, dup := seen[parent]; dup {
			return chain
		}
		seen[parent] = struct{}{}
		chain = append(chain, parent)
		mediaType = parent
	}
}

func readHead(path string, limit int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, limit)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		info, statErr := f.Stat()
		if statErr == nil && info.Size() == 0 {
			return nil, nil
		}
		return nil, err
	}
	return buf[:n], nil
}
