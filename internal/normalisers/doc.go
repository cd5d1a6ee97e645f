// Package normalisers provides implementations of the Normaliser interface
// for the formats Lingua imports. Each normaliser knows how to extract
// readable text from a specific MIME type.
//
// Normalisers are registered with the Registry at startup.
package normalisers
