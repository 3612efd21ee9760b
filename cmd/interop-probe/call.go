package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wippyai/interop/callable"
	"github.com/wippyai/interop/coerce"
	"github.com/wippyai/interop/shape"
)

func newCallCommand(a *app) *cobra.Command {
	var ifaceName, method string

	cmd := &cobra.Command{
		Use:   "call FILE MEMBER [ARGS...]",
		Short: "Adapt a member to an interface and call it",
		Long: `Adapt a member to an interface and call it.

Without --iface the member is adapted to a single-method interface named
after it, taking as many arguments as given. Arguments are YAML values:
42, 1.5, true, null, text, [1, 2], {a: 1}.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			t, err := openTarget(ctx, a.log, args[0])
			if err != nil {
				return err
			}
			defer t.close()

			name := args[1]
			v, err := t.member(name)
			if err != nil {
				return err
			}
			callArgs := make([]any, len(args)-2)
			for i, s := range args[2:] {
				callArgs[i] = parseArg(s)
			}

			s := shape.Single(name, len(callArgs))
			if ifaceName != "" {
				if a.interfaces == nil {
					return fmt.Errorf("--iface needs --interfaces")
				}
				var ok bool
				if s, ok = a.interfaces.Get(ifaceName); !ok {
					return fmt.Errorf("interface %q not found", ifaceName)
				}
			}

			adapter, err := coerce.As[*callable.Adapter](a.engine, v, s)
			if err != nil {
				return err
			}
			if adapter == nil {
				return fmt.Errorf("member %s is null", name)
			}
			var res any
			if method != "" {
				res, err = adapter.Call(method, callArgs...)
			} else {
				res, err = adapter.Invoke(callArgs...)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render(a.engine, res))
			return nil
		},
	}
	cmd.Flags().StringVar(&ifaceName, "iface", "", "named interface from --interfaces")
	cmd.Flags().StringVar(&method, "method", "", "method to call on a multi-method interface")
	return cmd
}
