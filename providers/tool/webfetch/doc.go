// Package webfetch provides a tool that downloads a web page and returns it
// as Markdown, using html-to-markdown for the conversion. The request
// deadline is whatever the caller's context carries; the controller's tool
// timeout applies.
package webfetch
