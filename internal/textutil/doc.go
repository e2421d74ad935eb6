// Package textutil provides text processing utilities for machine-name
// similarity matching and design filename sanitization.
//
// Fingerprints are term-frequency vectors built from lowercase
// alphanumeric tokens; cosine similarity between them drives the fuzzy
// machine lookup in the catalog package.
package textutil
