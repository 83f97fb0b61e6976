// Package autoindex embeds automatic index provisioning into a Go program that
// owns an event store on PostgreSQL.
//
// The client probes the server version once at construction and then creates
// one index per field whenever the caller reports schema evolution:
//
//	client, err := autoindex.New(ctx,
//	    autoindex.WithPostgres("postgres://localhost:5432/rakam"),
//	    autoindex.WithTimeColumn("_time"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	report, err := client.CollectionCreated(ctx, "shop", "pageview",
//	    autoindex.Field{Name: "_time", Type: autoindex.FieldTimestamp},
//	    autoindex.Field{Name: "url", Type: autoindex.FieldString},
//	)
//
// On servers older than 9.5 statement failures are tolerated (duplicate
// indexes are expected there) and err is only set for invalid identifiers.
// On newer servers the first failure stops the notification and is returned
// as a *ProvisionError.
package autoindex
