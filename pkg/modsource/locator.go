// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"strings"
)

const (
	// GitScheme is the locator prefix that selects the Git source variant.
	GitScheme = "git+"

	// FileScheme is the locator prefix that selects the local directory variant.
	FileScheme = "file://"

	// DefaultRef is the revision reference used when a Git locator omits the
	// @<ref> segment.
	DefaultRef = "main"

	// subdirectoryKey is the only fragment key recognized in Git locators.
	subdirectoryKey = "subdirectory="
)

// GitLocator is the structured form of a Git source locator string:
//
//	git+<repository-url>[@<ref>][#subdirectory=<path>]
//
// Values are immutable once parsed. ParseGitLocator and String form a
// round-trip pair: re-parsing String() always yields identical components,
// with an omitted ref rendered as DefaultRef.
type GitLocator struct {
	// URL is the repository URL without the git+ prefix.
	URL string

	// Ref is the branch, tag, or commit to check out. Never empty after a
	// successful parse.
	Ref string

	// Subdirectory is the optional path of the module within the repository.
	Subdirectory string
}

// ParseGitLocator parses a git+ locator string into its structured form.
// Malformed input (missing prefix, empty URL, empty ref, unrecognized
// fragment key) returns a *FormatError naming the offending string.
func ParseGitLocator(s string) (GitLocator, error) {
	rest, ok := strings.CutPrefix(s, GitScheme)
	if !ok {
		return GitLocator{}, &FormatError{Input: s, Reason: `missing "git+" scheme prefix`}
	}

	var subdirectory string
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		fragment := rest[i+1:]
		rest = rest[:i]
		value, ok := strings.CutPrefix(fragment, subdirectoryKey)
		if !ok {
			return GitLocator{}, &FormatError{
				Input:  s,
				Reason: `unrecognized fragment key (only "subdirectory=<path>" is supported)`,
			}
		}
		if value == "" {
			return GitLocator{}, &FormatError{Input: s, Reason: "empty subdirectory path"}
		}
		subdirectory = value
	}

	url, ref, hasRef := splitRef(rest)
	if url == "" {
		return GitLocator{}, &FormatError{Input: s, Reason: "empty repository URL"}
	}
	if hasRef && ref == "" {
		return GitLocator{}, &FormatError{Input: s, Reason: "empty revision reference after @"}
	}
	if !hasRef {
		ref = DefaultRef
	}

	return GitLocator{URL: url, Ref: ref, Subdirectory: subdirectory}, nil
}

// splitRef splits "<url>[@<ref>]" on the last '@' that falls inside the path
// portion of the URL. An '@' inside the credentials or host portion (e.g.
// "https://user@host/repo" or "git@github.com:org/repo") is never treated as
// a ref separator.
func splitRef(s string) (url, ref string, hasRef bool) {
	pathStart := 0
	if i := strings.Index(s, "://"); i >= 0 {
		pathStart = i + len("://")
	}
	slash := strings.IndexByte(s[pathStart:], '/')
	if slash < 0 {
		// No path portion at all; any '@' belongs to the host.
		return s, "", false
	}

	at := strings.LastIndexByte(s, '@')
	if at <= pathStart+slash {
		return s, "", false
	}
	return s[:at], s[at+1:], true
}

// String reconstructs the canonical locator string. The ref is always
// rendered, even when it equals DefaultRef; the subdirectory fragment is
// omitted when absent.
func (l GitLocator) String() string {
	ref := l.Ref
	if ref == "" {
		ref = DefaultRef
	}
	s := GitScheme + l.URL + "@" + ref
	if l.Subdirectory != "" {
		s += "#" + subdirectoryKey + l.Subdirectory
	}
	return s
}
