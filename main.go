package main

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/huna/cmd"
	"github.com/PolarWolf314/huna/internal/ui"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "huna",
	Short: "huna - encrypt files and directories in place with a password.",
	Long: `huna encrypts files in place with a password. An encrypted file keeps its
name and remembers its original text encoding, so decryption restores the
exact bytes.

Features:
  - Encrypt and decrypt single files, globs or whole directories
  - Preview an encrypted file without writing the plaintext to disk
  - See at a glance which files in a directory are encrypted

Usage:
  huna <command> [flags]

Available Commands:
  files      Encrypt, decrypt and inspect files
  config     Manage huna configuration

Run 'huna help <command>' for more details on a specific command.
`,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		figure.NewColorFigure("huna", "alligator2", "green", true).Print()
		fmt.Println()
		fmt.Println("Welcome to huna! Run " + ui.Code.Sprint("huna --help") + " to see available commands.")
	},
}

func init() {
	rootCmd.AddCommand(cmd.FilesCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !cmd.IsReported(err) {
			fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" "+err.Error())
		}
		os.Exit(1)
	}
}
