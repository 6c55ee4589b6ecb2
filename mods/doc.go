// Package mods models modifier sets and their identity.
//
// A [Set] is an unordered collection of [Mod] values. Two sets are the same
// set when their normalized keys match: acronyms are upper-cased and sorted,
// and any settings are folded into a short keyed hash.
//
// # Key format
//
//	NM                      no mods
//	DT+HD                   sorted acronyms
//	DT[3f9c02aa41d07e5b]+HD a mod with settings
//
// The settings hash is the first 8 bytes of a keyed BLAKE3 digest of the
// settings encoded as deterministic CBOR, so map order and numeric
// representation (1 vs 1.0) never change a key.
package mods
