package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"recordbook/client"
	"recordbook/console"
	"recordbook/form"
	"recordbook/models"
	"recordbook/render"
)

func newConsoleCommand() *cobra.Command {
	var apiURL string
	cmd := &cobra.Command{
		Use:       "console [bills|items]",
		Short:     "Manage one collection interactively",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: collectionNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.APIURL = apiURL
			}

			collection := models.BillSchema.Collection
			if len(args) == 1 {
				collection = args[0]
			}
			schema, ok := models.SchemaFor(collection)
			if !ok {
				return fmt.Errorf("unknown collection %q, expected one of %s", collection, strings.Join(collectionNames(), ", "))
			}

			out := cmd.OutOrStdout()
			prompt := console.NewPrompt(cmd.InOrStdin(), out)
			surface := render.NewText(out, schema, cfg.Location)
			api := client.New(cfg.APIURL, schema.Collection, client.WithTimeout(cfg.RequestTimeout))
			ctrl := form.New(schema, api, surface, prompt, prompt, form.WithLocation(cfg.Location))

			return console.New(prompt, ctrl, surface, cfg.RequestTimeout).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", "", "Record store base URL (overrides API_URL)")
	return cmd
}

func collectionNames() []string {
	var names []string
	for _, s := range models.Schemas() {
		names = append(names, s.Collection)
	}
	return names
}
