package secrets

import (
	"fmt"
	"io"
	"os"

	kerrors "github.com/PolarWolf314/huna/internal/errors"
	"github.com/PolarWolf314/huna/internal/utils"
)

// EnvPassword is the environment variable read by Env when Name is empty.
const EnvPassword = "HUNA_PASSWORD"

// PasswordSource supplies the password handed to Encrypt and Decrypt.
// When confirm is set, interactive sources ask twice and compare.
type PasswordSource interface {
	Password(confirm bool) (string, error)
}

// Static is a password known up front, such as a secret derived from a
// hardware authenticator.
type Static string

// Password returns s, or ErrValidation when it is empty.
func (s Static) Password(bool) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: password is required", kerrors.ErrValidation)
	}
	return string(s), nil
}

// Env reads the password from an environment variable.
type Env struct {
	Name string
}

// Password returns the variable's value, or ErrValidation when it is unset or empty.
func (e Env) Password(bool) (string, error) {
	name := e.Name
	if name == "" {
		name = EnvPassword
	}
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("%w: %s is not set", kerrors.ErrValidation, name)
	}
	return value, nil
}

// Reader reads the first line of R, typically stdin or a password file.
type Reader struct {
	R io.Reader
}

// Password returns the first line of R without its line ending.
func (r Reader) Password(bool) (string, error) {
	line, err := utils.ReadFirstLine(r.R)
	if err != nil {
		return "", err
	}
	if line == "" {
		return "", fmt.Errorf("%w: password input is empty", kerrors.ErrValidation)
	}
	return line, nil
}

// Prompt asks on the terminal without echo.
type Prompt struct {
	// Read defaults to utils.ReadPassphrase.
	Read func(prompt string) ([]byte, error)
}

// Password prompts once, or twice and compares when confirm is set.
func (p Prompt) Password(confirm bool) (string, error) {
	read := p.Read
	if read == nil {
		read = utils.ReadPassphrase
	}

	first, err := read("Password: ")
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrValidation, err)
	}
	if len(first) == 0 {
		return "", fmt.Errorf("%w: password is required", kerrors.ErrValidation)
	}
	if !confirm {
		return string(first), nil
	}

	second, err := read("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrValidation, err)
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("%w: passwords do not match", kerrors.ErrValidation)
	}
	return string(first), nil
}

// First tries each source in order and returns the first password found.
type First []PasswordSource

// Password returns the first answer, or the last source's error when none answers.
func (f First) Password(confirm bool) (string, error) {
	err := fmt.Errorf("%w: no password source available", kerrors.ErrValidation)
	for _, src := range f {
		var pw string
		pw, err = src.Password(confirm)
		if err == nil {
			return pw, nil
		}
	}
	return "", err
}
