package repositories

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	infraNeo4j "github.com/regcat-io/regcat/internal/infrastructure/database/neo4j"
)

// capturedQuery is one statement a mock transaction saw.
type capturedQuery struct {
	Cypher string
	Params map[string]any
}

// mockTransaction implements infraNeo4j.Transaction.  Each Run is answered by
// runFunc when set, otherwise by results keyed on call order, otherwise by an
// empty result.
type mockTransaction struct {
	queries []capturedQuery
	results []infraNeo4j.Result
	runFunc func(cypher string, params map[string]any) (infraNeo4j.Result, error)
}

func (m *mockTransaction) Run(ctx context.Context, cypher string, params map[string]any) (infraNeo4j.Result, error) {
	m.queries = append(m.queries, capturedQuery{Cypher: cypher, Params: params})
	if m.runFunc != nil {
		return m.runFunc(cypher, params)
	}
	if n := len(m.queries) - 1; n < len(m.results) {
		return m.results[n], nil
	}
	return &mockResult{}, nil
}

// mockDriver implements infraNeo4j.DriverInterface by handing work the given
// transaction.
type mockDriver struct {
	tx       *mockTransaction
	failWith error
}

func (m *mockDriver) ExecuteRead(ctx context.Context, work infraNeo4j.TransactionWork) (any, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return work(m.tx)
}

func (m *mockDriver) ExecuteWrite(ctx context.Context, work infraNeo4j.TransactionWork) (any, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return work(m.tx)
}

func (m *mockDriver) HealthCheck(ctx context.Context) error { return m.failWith }

func (m *mockDriver) Close() error { return nil }

// mockResult implements infraNeo4j.Result over a fixed record slice.
type mockResult struct {
	records []*neo4j.Record
	current int
	err     error
}

func (m *mockResult) Next(ctx context.Context) bool {
	return m.err == nil && m.current < len(m.records)
}

func (m *mockResult) Record() *neo4j.Record {
	rec := m.records[m.current]
	m.current++
	return rec
}

func (m *mockResult) Err() error { return m.err }

func (m *mockResult) Consume(ctx context.Context) (neo4j.ResultSummary, error) {
	return nil, m.err
}

func newRecord(keys []string, values []any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func resultOf(records ...*neo4j.Record) *mockResult {
	return &mockResult{records: records}
}

//Personal.AI order the ending
