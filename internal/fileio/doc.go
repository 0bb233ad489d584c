// Package fileio is the only place huna touches file contents.
//
// A Gateway enforces the size ceilings from the user config, classifies
// files by their leading bytes, and writes results back in place. Reads come
// in two shapes:
//
//   - A full read loads the file, rejecting it with ErrSizeExceeded before
//     any content is read when it is over the applicable ceiling. Encrypted
//     files come back as metadata plus cipher bytes, plaintext files as
//     content.Content.
//   - A header-only read fetches a small prefix with a single ReadAt and
//     parses just the container header. When the metadata block does not
//     close inside the prefix the read size doubles, up to MaxHeaderSize.
//
// Writes create missing parent directories and keep the permission bits of
// the file they replace. With Atomic set, data goes to a hidden temporary
// file in the same directory, which is then renamed over the target, so a
// crash never leaves a half-written file behind.
package fileio
