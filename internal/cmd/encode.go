package cmd

import (
	"fmt"
	"io"

	"github.com/dendrascience/toolbelt/util"
	"github.com/spf13/cobra"
)

// NewEncodeCmd creates the encode subcommand, which renders text as base64
// or hex.
func NewEncodeCmd() *cobra.Command {
	var (
		asHex bool
		upper bool
	)

	cmd := &cobra.Command{
		Use:   "encode [TEXT...]",
		Short: "Encode text as base64 or hex",
		Long: `Encode each TEXT argument, one result per line. Without arguments the
whole of standard input is encoded as a single value, minus its trailing
newline. Base64 uses the standard padded alphabet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := inputsOrStdin(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, in := range inputs {
				switch {
				case asHex && upper:
					fmt.Fprintln(out, util.ToHexUpper(in))
				case asHex:
					fmt.Fprintln(out, util.ToHex(in))
				default:
					fmt.Fprintln(out, util.ToBase64(in))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&asHex, "hex", "x", false, "Encode as hex instead of base64")
	cmd.Flags().BoolVarP(&upper, "upper", "u", false, "Use uppercase hex digits")

	return cmd
}

// NewDecodeCmd creates the decode subcommand, the inverse of encode.
func NewDecodeCmd() *cobra.Command {
	var asHex bool

	cmd := &cobra.Command{
		Use:   "decode [TEXT...]",
		Short: "Decode base64 or hex text",
		Long: `Decode each TEXT argument and write the raw bytes followed by a newline.
Hex input is case-insensitive; a trailing unpaired digit is ignored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := inputsOrStdin(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, in := range inputs {
				var b []byte
				if asHex {
					b, err = util.HexToBytes(in)
				} else {
					b, err = util.FromBase64(in)
				}
				if err != nil {
					return fmt.Errorf("decoding %q: %w", in, err)
				}
				out.Write(b)
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&asHex, "hex", "x", false, "Decode hex instead of base64")

	return cmd
}

func inputsOrStdin(stdin io.Reader, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, err
	}
	return []string{util.TrimNewlineEnd(string(data))}, nil
}
