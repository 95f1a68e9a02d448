package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/dataapi"
)

type createFlags struct {
	dimension       int
	metric          string
	allow           []string
	deny            []string
	serviceProvider string
	serviceModel    string
	defaultID       string
}

func newCollectionsCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "Manage collections",
	}

	cmd.AddCommand(
		newCollectionsListCmd(g),
		newCollectionsCreateCmd(g),
		newCollectionsDropCmd(g),
	)

	return cmd
}

func newCollectionsListCmd(g *globalFlags) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collections in the namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCollectionsList(cmd, g, explain)
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "Print each collection with its options")

	return cmd
}

func runCollectionsList(cmd *cobra.Command, g *globalFlags, explain bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDatabase(g, func(db *dataapi.Database) error {
		if !explain {
			names, err := db.ListCollectionNames(ctx)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		}

		list, err := db.ListCollections(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		for _, d := range list {
			if err := enc.Encode(d.ToMap()); err != nil {
				return fmt.Errorf("encoding collection %s: %w", d.Name, err)
			}
		}
		return nil
	})
}

func newCollectionsCreateCmd(g *globalFlags) *cobra.Command {
	var flags createFlags

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollectionsCreate(cmd, g, args[0], flags)
		},
	}

	cmd.Flags().IntVar(&flags.dimension, "dimension", 0, "Vector dimension")
	cmd.Flags().StringVar(&flags.metric, "metric", "", "Similarity metric: cosine, dot_product, euclidean")
	cmd.Flags().StringSliceVar(&flags.allow, "allow", nil, "Index only these fields")
	cmd.Flags().StringSliceVar(&flags.deny, "deny", nil, "Index every field except these")
	cmd.Flags().StringVar(&flags.serviceProvider, "service-provider", "", "Embedding provider for $vectorize")
	cmd.Flags().StringVar(&flags.serviceModel, "service-model", "", "Embedding model for $vectorize")
	cmd.Flags().StringVar(&flags.defaultID, "default-id", "", "Generated _id type: uuid, uuidv6, uuidv7, objectId")

	cmd.MarkFlagsMutuallyExclusive("allow", "deny")
	cmd.MarkFlagsRequiredTogether("service-provider", "service-model")

	return cmd
}

func runCollectionsCreate(cmd *cobra.Command, g *globalFlags, name string, flags createFlags) error {
	ctx := cmd.Context()

	opts := flags.options(cmd)
	return withDatabase(g, func(db *dataapi.Database) error {
		coll, err := db.CreateCollection(ctx, name, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created collection %q in namespace %q\n", coll.Name(), coll.Namespace())
		return nil
	})
}

// options maps the flags that were set to collection options.
func (f createFlags) options(cmd *cobra.Command) []dataapi.CollectionOption {
	var opts []dataapi.CollectionOption
	if cmd.Flags().Changed("dimension") {
		opts = append(opts, dataapi.WithDimension(f.dimension))
	}
	if f.metric != "" {
		opts = append(opts, dataapi.WithMetric(dataapi.Metric(f.metric)))
	}
	if f.serviceProvider != "" {
		opts = append(opts, dataapi.WithService(f.serviceProvider, f.serviceModel))
	}
	if len(f.allow) > 0 {
		opts = append(opts, dataapi.WithIndexingAllow(f.allow...))
	}
	if len(f.deny) > 0 {
		opts = append(opts, dataapi.WithIndexingDeny(f.deny...))
	}
	if f.defaultID != "" {
		opts = append(opts, dataapi.WithDefaultIDType(dataapi.IDType(f.defaultID)))
	}
	return opts
}

func newCollectionsDropCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "drop NAME",
		Short: "Drop a collection and its documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(g, func(db *dataapi.Database) error {
				if _, err := db.DropCollection(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Dropped collection %q\n", args[0])
				return nil
			})
		},
	}
}
