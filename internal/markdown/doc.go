// Package markdown turns item bodies into display HTML. Bodies that already
// are markup pass through; others go through a restricted dialect (headings,
// lists, code, emphasis, links, hard breaks) or, when configured, goldmark.
package markdown
