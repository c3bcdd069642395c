package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/objkernel/internal/object"
)

// InspectResult describes one constructed object.
type InspectResult struct {
	Kind     string `json:"kind"`
	Identity string `json:"identity"`
	Display  string `json:"display"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect (int <n> | bool <true|false>)",
		Short: "Construct one object and show its identity and display string",
		Long: `Construct a single object from a literal and print its kind, identity
and display string.

Examples:
  objkernel inspect int 42
  objkernel inspect int -- -7
  objkernel inspect bool false --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runInspect(opts *RootOptions, kind, literal string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	obj, err := parseLiteral(kind, literal)
	if err != nil {
		if ferr := formatter.Error(ErrCodeInvalidLiteral, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "invalid literal", err)
	}

	res := InspectResult{
		Kind:     obj.Kind().String(),
		Identity: obj.ID().String(),
		Display:  object.Display(obj),
	}
	formatter.VerboseLog("constructed %s with identity %s", res.Kind, res.Identity)

	if opts.Format == "json" {
		return formatter.Success(res)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "kind:     %s\nidentity: %s\ndisplay:  %s\n", res.Kind, res.Identity, res.Display)
	return nil
}

// parseLiteral constructs an object from a kind keyword and its literal text.
func parseLiteral(kind, literal string) (object.Object, error) {
	switch kind {
	case "int":
		v, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid int literal %q: %w", literal, err)
		}
		return object.NewInteger(v), nil
	case "bool":
		switch literal {
		case "true":
			return object.NewTrue(), nil
		case "false":
			return object.NewFalse(), nil
		}
		return nil, fmt.Errorf("invalid bool literal %q: must be true or false", literal)
	default:
		return nil, fmt.Errorf("unknown kind %q: must be int or bool", kind)
	}
}
