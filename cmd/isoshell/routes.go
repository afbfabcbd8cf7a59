package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/isoshell/internal/app"
	"github.com/vango-dev/isoshell/pkg/apiclient"
	"github.com/vango-dev/isoshell/pkg/loader"
)

func routesCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the route table in match order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			api, err := apiclient.New(apiclient.Config{BaseURL: cfg.APIBaseURL()})
			if err != nil {
				return err
			}
			table, err := app.New(api, appOptions(cfg))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPATTERN\tLOADERS\tGUARDED")
			for _, r := range table.Routes() {
				var names []string
				for _, l := range loader.Dedupe(table.Loaders(&r)...) {
					names = append(names, l.Name())
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", r.Name, r.Pattern, strings.Join(names, ","), r.Guard != nil)
			}
			return tw.Flush()
		},
	}
}
