// Package catalog holds the static embroidery knowledge base: the file
// format table and the machine registry.
//
// Both are read-only for the lifetime of a session. The format table is
// compiled in; the machine registry is parsed once from an embedded CSV
// asset. Machine lookup is forgiving: names are case-folded and
// punctuation-insensitive, and near-misses resolve through token
// fingerprint similarity with suggestions on failure.
package catalog
