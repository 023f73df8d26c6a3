// Package duckduckgo provides a keyless web search tool backed by the
// DuckDuckGo Instant Answer API. Results are condensed into a short text
// summary suitable as an observation.
package duckduckgo
