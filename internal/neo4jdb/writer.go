package neo4jdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/persistorai/graphconsole/internal/graph"
)

var errNoID = errors.New("create returned no id")

// WriteTx runs fn inside a single managed write transaction. The driver
// retries fn on transient failures and rolls back when it returns an error.
func (c *Client) WriteTx(ctx context.Context, fn func(w graph.Writer) error) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: c.database,
	})
	defer session.Close(ctx) //nolint:errcheck // best-effort close after the transaction settles.

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, fn(&txWriter{tx: tx})
	})
	if err != nil {
		return fmt.Errorf("write transaction: %w", err)
	}

	return nil
}

type txWriter struct {
	tx neo4j.ManagedTransaction
}

func (w *txWriter) CreateNode(ctx context.Context, labels []string, props map[string]any) (int64, error) {
	var b strings.Builder
	b.WriteString("CREATE (n")

	for _, l := range labels {
		b.WriteByte(':')
		b.WriteString(quoteIdent(l))
	}

	b.WriteString(" $props) RETURN id(n) AS id")

	return w.createReturningID(ctx, b.String(), map[string]any{"props": nonNil(props)})
}

func (w *txWriter) CreateRelationship(ctx context.Context, start, end int64, relType string, props map[string]any) (int64, error) {
	cypher := "MATCH (a), (b) WHERE id(a) = $start AND id(b) = $end " +
		"CREATE (a)-[r:" + quoteIdent(relType) + " $props]->(b) RETURN id(r) AS id"

	return w.createReturningID(ctx, cypher, map[string]any{
		"start": start,
		"end":   end,
		"props": nonNil(props),
	})
}

func (w *txWriter) createReturningID(ctx context.Context, cypher string, params map[string]any) (int64, error) {
	res, err := w.tx.Run(ctx, cypher, params)
	if err != nil {
		return 0, fmt.Errorf("running create: %w", err)
	}

	rec, err := res.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading created id: %w", err)
	}

	id, ok := rec.Get("id")
	if !ok {
		return 0, errNoID
	}

	n, ok := id.(int64)
	if !ok {
		return 0, fmt.Errorf("%w: unexpected %T", errNoID, id)
	}

	return n, nil
}

// quoteIdent back-tick escapes a label or relationship type.
func quoteIdent(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

func nonNil(props map[string]any) map[string]any {
	if props == nil {
		return map[string]any{}
	}

	return props
}
