package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/trait"
)

// memberRow is one line of the probe table.
type memberRow struct {
	name   string
	traits trait.Set
	value  string
}

func newProbeCommand(a *app) *cobra.Command {
	var member, shapeText string

	cmd := &cobra.Command{
		Use:   "probe FILE",
		Short: "List members with their traits, or project one member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			t, err := openTarget(ctx, a.log, args[0])
			if err != nil {
				return err
			}
			defer t.close()

			out := cmd.OutOrStdout()
			if member == "" {
				rows, err := a.rows(t)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, memberTable(rows))
				return nil
			}

			v, err := t.member(member)
			if err != nil {
				return err
			}
			if shapeText == "" {
				fmt.Fprintf(out, "%s %s\n", member, trait.Probe(v))
				fmt.Fprintln(out, a.preview(v))
				return nil
			}
			s, err := a.resolveShape(shapeText)
			if err != nil {
				return err
			}
			res, err := a.engine.Project(v, s)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, render(a.engine, res))
			return nil
		},
	}
	cmd.Flags().StringVarP(&member, "member", "m", "", "member to inspect")
	cmd.Flags().StringVarP(&shapeText, "shape", "s", "", "shape (or interface name) to project the member onto")
	return cmd
}

func (a *app) rows(t *target) ([]memberRow, error) {
	keys, err := t.root.MemberKeys()
	if err != nil {
		return nil, err
	}
	rows := make([]memberRow, 0, len(keys))
	for _, k := range keys {
		v, err := t.member(k)
		if err != nil {
			return nil, err
		}
		rows = append(rows, memberRow{name: k, traits: trait.Probe(v), value: a.preview(v)})
	}
	return rows, nil
}

// previewLimit caps the elements rendered for one table cell; wasm memories
// alone hold 64KiB per page.
const previewLimit = 32

func (a *app) preview(v interop.Value) string {
	if v.HasArrayElements() {
		if n, err := v.ArraySize(); err == nil && n > previewLimit {
			return fmt.Sprintf("[%d elements]", n)
		}
	}
	return a.engine.Format(v)
}

func memberTable(rows []memberRow) string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("MEMBER", "TRAITS", "VALUE").
		BorderStyle(lipgloss.NewStyle().Foreground(nullColor)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1 && row >= 0 && row < len(rows):
				return cellStyle.Foreground(traitColor(rows[row].traits))
			}
			return cellStyle
		})
	for _, r := range rows {
		tbl.Row(r.name, r.traits.String(), r.value)
	}
	return tbl.String()
}
