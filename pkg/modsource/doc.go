// SPDX-License-Identifier: MPL-2.0

// Package modsource defines the closed set of module source variants and the
// locator grammar used to describe them.
//
// A module source answers one question: where does a module's code live on
// disk? The three variants are:
//   - [DirSource]: a local directory (absolute, relative, or file:// form)
//   - [GitSource]: a Git repository at a specific ref, resolved through a
//     content-addressed local cache
//   - [PackageSource]: a module already installed in the host registry
//
// Every variant implements [Source]. Variants whose code can be materialized
// into an arbitrary caller-chosen directory additionally implement
// [Installer].
//
// Locator strings are classified by [Classify] using a fixed decision table:
//
//	git+<url>[@<ref>][#subdirectory=<path>]  -> GitSource
//	file://<path>, /abs, ./rel, ../rel       -> DirSource
//	anything else                            -> *FormatError
//
// Bare tokens are deliberately rejected rather than guessed as package names;
// package resolution happens only through the resolver's package layer.
//
// Git fetching is a capability, not an implementation detail: [GitSource]
// invokes an injected [Fetcher], and tests substitute fakes. The production
// implementation is [GitFetcher], built on go-git.
package modsource
