package postgresql

import (
	"context"
	"fmt"
)

// ReadinessCheck returns a probe that pings the pool and runs a trivial query,
// so a pool that connects but cannot serve statements still reports unready.
func ReadinessCheck(client PostgreSQLClient) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx); err != nil {
			return fmt.Errorf("ping: %w", err)
		}

		var one int
		if err := client.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
			return fmt.Errorf("query: %w", err)
		}
		if one != 1 {
			return fmt.Errorf("postgres %s answered %d to SELECT 1", client.DatabaseName(), one)
		}
		return nil
	}
}
