// Package container reads and writes the on-disk envelope of an encrypted
// file.
//
// An envelope is the literal Marker, a compact JSON metadata object and
// the cipher bytes, concatenated with no separators:
//
//	[HUNA-ENCRYPTED]{"filename":"a.txt","encoding":"utf-8","version":1,"signature":"…"}<salt><iv><ciphertext>
//
// Braces inside metadata strings are written as \u007b and \u007d, so the
// first '}' after the marker always closes the metadata block. A file is
// encrypted if and only if it starts with the marker; nothing else is
// checked to decide that.
//
// ParseHeader works on a bounded prefix of a file and reports
// ErrHeaderIncomplete when the metadata block does not close inside it, so
// directory scans can classify files without reading their payloads.
package container
