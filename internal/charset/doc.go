// Package charset classifies raw bytes as binary or as text in one of a
// closed set of encodings, and transcodes text between that encoding and
// UTF-8.
//
// Detection never fails. Valid UTF-8 without control bytes is recognized
// directly; anything else goes through statistical detection
// (github.com/saintfish/chardet) and, when the detector is unsure, a
// control-byte heuristic. Names outside the supported set classify as
// Binary.
//
// Canonical names are lowercase IANA-style labels such as "utf-8",
// "utf-16le", "windows-1252" or "shift_jis". They are stored in container
// metadata, so they must stay stable across releases.
package charset
