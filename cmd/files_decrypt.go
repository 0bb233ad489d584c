package cmd

import (
	"github.com/PolarWolf314/huna/internal/workflows"
	"github.com/spf13/cobra"
)

var decryptFlags transformFlags

func init() {
	decryptFlags.register(decryptCmd)
}

var decryptMode = transformMode{
	op:       "decrypt",
	past:     "Decrypted",
	progress: "Decrypting files...",
	file:     (*workflows.Engine).DecryptFile,
	dir:      (*workflows.Engine).DecryptDirectory,
	pending:  func(isEncrypted bool) bool { return isEncrypted },
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt <path>...",
	Short: "Decrypts files in place, restoring the original bytes",
	Long: `Decrypts each file in place. A directory is walked recursively and every
encrypted file in it is decrypted; plaintext files are skipped.

The original bytes are restored exactly, in the text encoding the file had
before it was encrypted. A wrong password leaves the file untouched.

Examples:
  huna files decrypt notes.txt
  huna files decrypt ./journal
  huna files decrypt ./journal --dry-run --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransform(cmd, args, &decryptFlags, decryptMode)
	},
}
