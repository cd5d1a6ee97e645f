// Package html provides a Normaliser implementation for HTML pages.
// It extracts the main article with go-readability, then strips tags,
// scripts and ruby annotations, keeping one paragraph per line.
package html
