// Package content models plaintext as a sum type: either opaque bytes
// (Binary) or a decoded string tagged with the encoding it was read in
// (Text).
//
// The binary or text decision is made once, when bytes enter the program,
// and the tagged value is then threaded through the cipher and the
// container codec. Text whose decode and re-encode would not reproduce the
// original bytes is kept as Binary, so converting back with Raw is always
// lossless.
package content
