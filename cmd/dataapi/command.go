package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/dataapi"
)

func newCommandCmd(g *globalFlags) *cobra.Command {
	var collection string

	cmd := &cobra.Command{
		Use:   "command JSON",
		Short: "Send a raw command document",
		Long: "Sends a single-key command document such as '{\"findCollections\": {}}' " +
			"and prints the reply. Use --collection to address a collection.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, g, args[0], collection)
		},
	}

	cmd.Flags().StringVar(&collection, "collection", "", "Collection to address")

	return cmd
}

func runCommand(cmd *cobra.Command, g *globalFlags, raw, collection string) error {
	doc, err := decodeObject(raw)
	if err != nil {
		return fmt.Errorf("parsing command: %w", err)
	}

	var opts []dataapi.CallOption
	if collection != "" {
		opts = append(opts, dataapi.OnCollection(collection))
	}

	return withDatabase(g, func(db *dataapi.Database) error {
		reply, cmdErr := db.Command(cmd.Context(), doc, opts...)
		var apiErr *dataapi.APIError
		if cmdErr != nil && !errors.As(cmdErr, &apiErr) {
			return cmdErr
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(reply); err != nil {
			return fmt.Errorf("encoding reply: %w", err)
		}
		return cmdErr
	})
}

// decodeObject parses a JSON object, keeping numbers exact.
func decodeObject(raw string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(strings.TrimSpace(raw))))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("expected a JSON object")
	}
	return doc, nil
}
