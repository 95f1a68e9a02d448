// Package dataapi provides a Go client for the JSON Data API of a hosted
// document database.
//
// Every operation is a single JSON command object keyed by its operation name,
// posted to a namespace (database-level commands) or to a collection inside it.
//
// # Handles
//
// A Database is bound to a namespace at construction; a Collection is bound to
// a namespace and a name. Handles are immutable: WithNamespace returns a copy.
// Per-call InNamespace overrides the bound namespace for that call only.
//
//	client, _ := dataapi.New(endpoint, token, dataapi.WithNamespace("default_keyspace"))
//	db := client.Database()
//
//	col, _ := db.CreateCollection(ctx, "c1",
//	    dataapi.WithDimension(123),
//	    dataapi.WithMetric(dataapi.MetricEuclidean),
//	    dataapi.WithIndexingDeny("a", "b", "c"),
//	)
//	names, _ := db.ListCollectionNames(ctx)
//	_, _ = col.Drop(ctx)
//
// # Raw commands
//
//	resp, _ := db.Command(ctx, map[string]any{"countDocuments": map[string]any{}},
//	    dataapi.OnCollection("c1"))
//
// Dropping a collection is idempotent: a missing collection reports OK too.
package dataapi
