package cmd

import (
	"github.com/PolarWolf314/huna/internal/workflows"
	"github.com/spf13/cobra"
)

var encryptFlags transformFlags

func init() {
	encryptFlags.register(encryptCmd)
}

var encryptMode = transformMode{
	op:       "encrypt",
	past:     "Encrypted",
	progress: "Encrypting files...",
	confirm:  true,
	file:     (*workflows.Engine).EncryptFile,
	dir:      (*workflows.Engine).EncryptDirectory,
	pending:  func(isEncrypted bool) bool { return !isEncrypted },
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt <path>...",
	Short: "Encrypts files in place with a password",
	Long: `Encrypts each file in place. A directory is walked recursively and every
plaintext file in it is encrypted; files that are already encrypted are skipped.

Paths may be glob patterns, including ** for any depth. Quote them so the
shell does not expand them first.

The password is read from --password-stdin or --password-file when given,
then from HUNA_PASSWORD, and finally from an interactive prompt that asks
twice.

Examples:
  huna files encrypt notes.txt
  huna files encrypt ./journal --dry-run
  huna files encrypt 'docs/**/*.md' --password-file ~/.huna-pass
  echo "$PASS" | huna files encrypt ./journal --password-stdin --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransform(cmd, args, &encryptFlags, encryptMode)
	},
}
