// Package secrets implements the password-based content cipher used by huna.
//
// # Cipher
//
// Encrypt derives a 256-bit key from the password with scrypt
// (golang.org/x/crypto/scrypt, N=16384, r=8, p=1) and a fresh 16-byte
// salt, then encrypts with AES-256-CBC under a fresh 16-byte IV and PKCS#7
// padding. The output is self-contained:
//
//	salt (16 bytes) || iv (16 bytes) || ciphertext
//
// Encrypting the same content twice produces different bytes.
//
// CBC is not authenticated. A wrong password usually breaks the padding
// and Decrypt reports ErrDecryptionFailed, but roughly one wrong password
// in 256 unpads cleanly. Callers compare the result against the content
// signature stored in the container to catch that case.
//
// # Passwords
//
// The cipher takes the password as a plain string. Where it comes from is
// up to a PasswordSource: a terminal prompt, the HUNA_PASSWORD environment
// variable, the first line of stdin or a file, or a Static value such as a
// secret derived from a hardware key.
package secrets
