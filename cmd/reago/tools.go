package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leofalp/reago/providers/reasoning"
	"github.com/leofalp/reago/providers/tool"
)

func (a *app) newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the built-in tools and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			registry, err := newRegistry()
			if err != nil {
				return err
			}
			descriptions := registry.Descriptions()
			if a.v.GetBool(flagJSON) {
				return a.writeJSON(descriptions)
			}
			p := newPrinter(a.out, a.v.GetBool(flagNoColor))
			for _, d := range descriptions {
				fmt.Fprintf(a.out, "%s  %s\n", p.action.Sprint(d.Name), d.Description)
				for _, param := range d.Params {
					fmt.Fprintf(a.out, "    %s\n", formatParam(param))
				}
			}
			return nil
		},
	}
}

func formatParam(p tool.Param) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s", p.Name, p.Type)
	if p.Required {
		b.WriteString(", required")
	}
	b.WriteString(")")
	if p.Description != "" {
		b.WriteString(": " + p.Description)
	}
	return b.String()
}

func (a *app) newPromptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt [scenario.yaml]",
		Short: "Print the initial ReAct prompt a reasoning backend would receive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			sc, err := loadScenario(ref)
			if err != nil {
				return err
			}
			registry, err := newRegistry()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, reasoning.BuildPrompt(reasoning.Request{
				Goal:  sc.Goal,
				Tools: registry.Descriptions(),
			}))
			return nil
		},
	}
}
