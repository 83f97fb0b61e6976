package health

import "context"

// Pinger checks availability of one dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}
