package views

import (
	"net/url"
	"path/filepath"
	"strings"
)

// ParseDroppedPaths extracts absolute paths from text a terminal pastes when
// files are dropped onto it. Paths may be shell quoted, backslash escaped or
// file:// URIs, separated by whitespace or newlines. Anything that is not an
// absolute path is ignored.
func ParseDroppedPaths(text string) []string {
	var paths []string
	for _, token := range splitShellWords(text) {
		if strings.HasPrefix(token, "file://") {
			u, err := url.Parse(token)
			if err != nil {
				continue
			}
			token = u.Path
		}
		if filepath.IsAbs(token) {
			paths = append(paths, filepath.Clean(token))
		}
	}
	return paths
}

// splitShellWords splits text into words the way a POSIX shell would for
// quoting and escaping. No expansion is performed.
func splitShellWords(text string) []string {
	var (
		words   []string
		current strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	flush := func() {
		if inWord {
			words = append(words, current.String())
			current.Reset()
			inWord = false
		}
	}

	for _, r := range text {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case quote != 0:
			if r == quote {
				quote = 0
			} else if r == '\\' && quote == '"' {
				escaped = true
			} else {
				current.WriteRune(r)
			}
		case r == '\\':
			escaped, inWord = true, true
		case r == '\'' || r == '"':
			quote, inWord = r, true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	flush()
	return words
}
