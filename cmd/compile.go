package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/w3lottery/internal/contract"
	"github.com/Mohsinsiddi/w3lottery/internal/evmasm"
	"github.com/Mohsinsiddi/w3lottery/internal/lottery"
	"github.com/Mohsinsiddi/w3lottery/internal/ui"
	"github.com/spf13/cobra"
)

var (
	compileOut      string
	inspectArtifact string
	inspectInit     bool
)

// ── compile ───────────────────────────────────────────────────────────────────

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Write the built-in Lottery artifact to a file",
	Long: `Assemble the built-in Lottery contract and write its ABI and bytecode as a
solc-style JSON artifact. The file can be deployed with --artifact or loaded
by other tooling.

Examples:
  w3lottery compile
  w3lottery compile --out artifacts/Lottery.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := lottery.DefaultArtifact()
		if err != nil {
			return err
		}
		if err := contract.WriteArtifact(compileOut, a); err != nil {
			return err
		}
		fmt.Println(ui.Success("Wrote " + compileOut))
		fmt.Println(ui.KeyValueBlock(a.ContractName, [][2]string{
			{"Init code", fmt.Sprintf("%d bytes", len(a.Bytecode))},
			{"Runtime", fmt.Sprintf("%d bytes", len(a.DeployedBytecode))},
		}))
		return nil
	},
}

// ── inspect ───────────────────────────────────────────────────────────────────

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Disassemble the contract bytecode",
	Long: `Print an opcode listing of the runtime bytecode (or, with --init, the
deployment bytecode) of the built-in contract or of an artifact file.

Examples:
  w3lottery inspect
  w3lottery inspect --init
  w3lottery inspect --artifact build/Lottery.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			a   *contract.Artifact
			err error
		)
		if inspectArtifact != "" {
			a, err = contract.LoadArtifact(inspectArtifact)
		} else {
			a, err = lottery.DefaultArtifact()
		}
		if err != nil {
			return err
		}

		code := a.DeployedBytecode
		if inspectInit {
			code = a.Bytecode
		}
		if len(code) == 0 {
			return fmt.Errorf("artifact has no runtime bytecode — try --init")
		}
		fmt.Print(evmasm.Listing(code))
		fmt.Println(ui.Meta(fmt.Sprintf("%d bytes, %d instructions", len(code), len(evmasm.Disassemble(code)))))
		return nil
	},
}

func init() {
	compileCmd.Flags().StringVarP(&compileOut, "out", "o", "build/Lottery.json", "output file")
	inspectCmd.Flags().StringVar(&inspectArtifact, "artifact", "", "artifact file to disassemble (default: built-in contract)")
	inspectCmd.Flags().BoolVar(&inspectInit, "init", false, "disassemble the deployment bytecode instead of the runtime")
}
