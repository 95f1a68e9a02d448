package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/dataapi"
)

const defaultUpperBound = 1000

func newCountCmd(g *globalFlags) *cobra.Command {
	var (
		filter     string
		upperBound int
	)

	cmd := &cobra.Command{
		Use:   "count COLLECTION",
		Short: "Count documents in a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var f map[string]any
			if filter != "" {
				var err error
				if f, err = decodeObject(filter); err != nil {
					return fmt.Errorf("parsing filter: %w", err)
				}
			}

			return withDatabase(g, func(db *dataapi.Database) error {
				n, err := db.GetCollection(args[0]).CountDocuments(cmd.Context(), f, upperBound)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Equality filter as a JSON object")
	cmd.Flags().IntVar(&upperBound, "upper-bound", defaultUpperBound, "Fail when more documents match")

	return cmd
}
