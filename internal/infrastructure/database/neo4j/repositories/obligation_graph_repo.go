// Package repositories implements the obligation graph store on Neo4j.
//
// The RDF view maps onto the property graph as:
//
//	(:Resource {uri})                      URI-identified node
//	(:Literal {value, lang})               literal object
//	-[:PREDICATE {uri}]->                  one statement
//
// Every statement is a single PREDICATE relationship carrying the predicate
// URI, so all queries stay fully parameterized.
package repositories

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/regcat-io/regcat/internal/domain/obligation"
	driver "github.com/regcat-io/regcat/internal/infrastructure/database/neo4j"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/pkg/errors"
)

type obligationGraphRepo struct {
	driver driver.DriverInterface
	vocab  obligation.Vocabulary
	logger logging.Logger
}

// NewObligationGraphRepository builds the graph store behind the RDF
// identity layer.
func NewObligationGraphRepository(d driver.DriverInterface, vocab obligation.Vocabulary, logger logging.Logger) obligation.GraphRepository {
	return &obligationGraphRepo{driver: d, vocab: vocab, logger: logger}
}

// entityPrefix scopes the minted sub-entity URIs retired wholesale on every
// re-extraction.
func (r *obligationGraphRepo) entityPrefix() string {
	return r.vocab.Namespace() + "entity_"
}

func (r *obligationGraphRepo) hasObligation() string {
	return r.vocab.Term(obligation.PredHasReportingObligation)
}

func (r *obligationGraphRepo) hasSource() string {
	return r.vocab.Term(obligation.PredHasDocumentSource)
}

// ─────────────────────────────────────────────────────────────────────────────
// Reads
// ─────────────────────────────────────────────────────────────────────────────

const matchingObligationsCypher = `
MATCH (:Resource {uri: $doc})-[:PREDICATE {uri: $hasObligation}]->(o:Resource)
MATCH (o)-[:PREDICATE {uri: $rdfValue}]->(:Literal {value: $value})
RETURN o.uri AS uri
ORDER BY o.uri`

func (r *obligationGraphRepo) MatchingObligations(ctx context.Context, catDocURI, value string) ([]string, error) {
	out, err := r.driver.ExecuteRead(ctx, func(tx driver.Transaction) (any, error) {
		result, err := tx.Run(ctx, matchingObligationsCypher, map[string]any{
			"doc":           catDocURI,
			"hasObligation": r.hasObligation(),
			"rdfValue":      obligation.RDFValue,
			"value":         value,
		})
		if err != nil {
			return nil, err
		}
		return driver.CollectRecords(ctx, result, func(rec *neo4j.Record) (string, error) {
			return recordString(rec, "uri")
		})
	})
	if err != nil {
		return nil, err
	}
	uris, _ := out.([]string)
	return uris, nil
}

const priorMatchesCypher = `
MATCH (:Resource {uri: $doc})-[:PREDICATE {uri: $hasObligation}]->(o:Resource)
MATCH (o)-[:PREDICATE {uri: $rdfValue}]->(l:Literal)
RETURN l.value AS value, o.uri AS uri
ORDER BY o.uri`

func (r *obligationGraphRepo) PriorMatchesForDocument(ctx context.Context, catDocURI string) (obligation.PriorMatches, error) {
	type pair struct {
		value string
		uri   string
	}

	out, err := r.driver.ExecuteRead(ctx, func(tx driver.Transaction) (any, error) {
		result, err := tx.Run(ctx, priorMatchesCypher, map[string]any{
			"doc":           catDocURI,
			"hasObligation": r.hasObligation(),
			"rdfValue":      obligation.RDFValue,
		})
		if err != nil {
			return nil, err
		}
		return driver.CollectRecords(ctx, result, func(rec *neo4j.Record) (pair, error) {
			value, err := recordString(rec, "value")
			if err != nil {
				return pair{}, err
			}
			uri, err := recordString(rec, "uri")
			if err != nil {
				return pair{}, err
			}
			return pair{value: value, uri: uri}, nil
		})
	})
	if err != nil {
		return nil, err
	}

	matches := make(obligation.PriorMatches)
	pairs, _ := out.([]pair)
	for _, p := range pairs {
		matches[p.value] = append(matches[p.value], p.uri)
	}
	return matches, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Plan application
// ─────────────────────────────────────────────────────────────────────────────

const retireEntitiesCypher = `
MATCH (:Resource {uri: $uri})-[:PREDICATE]->(e:Resource)
WHERE e.uri STARTS WITH $entityPrefix
DETACH DELETE e`

const retireKeepValueCypher = `
MATCH (:Resource {uri: $uri})-[r:PREDICATE]->()
WHERE r.uri <> $rdfValue
DELETE r`

const retireFullCypher = `
MATCH (o:Resource {uri: $uri})
DETACH DELETE o`

const addTriplesCypher = `
UNWIND $triples AS t
MERGE (s:Resource {uri: t.subject})
MERGE (o:Resource {uri: t.object})
MERGE (s)-[:PREDICATE {uri: t.predicate}]->(o)`

const addLiteralsCypher = `
UNWIND $literals AS t
MERGE (s:Resource {uri: t.subject})
MERGE (s)-[:PREDICATE {uri: t.predicate}]->(:Literal {value: t.object, lang: t.lang})`

const cleanupLiteralsCypher = `
MATCH (l:Literal)
WHERE NOT ()-[:PREDICATE]->(l)
DELETE l`

// Apply executes a plan in one write transaction: sub-entity and obligation
// retirements first, then the run's additions, then orphaned-literal cleanup.
func (r *obligationGraphRepo) Apply(ctx context.Context, plan *obligation.Plan) error {
	if plan.Empty() {
		return nil
	}

	var uriTriples, literalTriples []map[string]any
	for _, t := range plan.Additions {
		row := map[string]any{
			"subject":   t.Subject,
			"predicate": t.Predicate,
			"object":    t.Object,
		}
		if t.Literal {
			row["lang"] = t.Lang
			literalTriples = append(literalTriples, row)
		} else {
			uriTriples = append(uriTriples, row)
		}
	}

	_, err := r.driver.ExecuteWrite(ctx, func(tx driver.Transaction) (any, error) {
		for _, ret := range plan.Retired {
			if _, err := tx.Run(ctx, retireEntitiesCypher, map[string]any{
				"uri":          ret.URI,
				"entityPrefix": r.entityPrefix(),
			}); err != nil {
				return nil, err
			}

			cypher := retireFullCypher
			params := map[string]any{"uri": ret.URI}
			if ret.KeepValue {
				cypher = retireKeepValueCypher
				params["rdfValue"] = obligation.RDFValue
			}
			if _, err := tx.Run(ctx, cypher, params); err != nil {
				return nil, err
			}
		}

		if len(uriTriples) > 0 {
			if _, err := tx.Run(ctx, addTriplesCypher, map[string]any{"triples": uriTriples}); err != nil {
				return nil, err
			}
		}
		if len(literalTriples) > 0 {
			if _, err := tx.Run(ctx, addLiteralsCypher, map[string]any{"literals": literalTriples}); err != nil {
				return nil, err
			}
		}

		if _, err := tx.Run(ctx, cleanupLiteralsCypher, nil); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("Applied graph plan",
		logging.String("cat_doc", plan.CatDocURI),
		logging.Int("retired", len(plan.Retired)),
		logging.Int("additions", len(plan.Additions)))
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Read-back
// ─────────────────────────────────────────────────────────────────────────────

const obligationsByDocumentCypher = `
MATCH (:Resource {uri: $doc})-[:PREDICATE {uri: $hasObligation}]->(o:Resource)
MATCH (o)-[:PREDICATE {uri: $rdfValue}]->(v:Literal)
OPTIONAL MATCH (o)-[pe:PREDICATE]->(e:Resource)
WHERE pe.uri <> $rdfType
OPTIONAL MATCH (e)-[:PREDICATE {uri: $prefLabel}]->(el:Literal)
OPTIONAL MATCH (e)-[:PREDICATE {uri: $rdfType}]->(ec:Resource)
RETURN o.uri AS uri, v.value AS value,
       collect({uri: e.uri, predicate: pe.uri, class: ec.uri, label: el.value}) AS entities
ORDER BY o.uri`

func (r *obligationGraphRepo) ObligationsByDocument(ctx context.Context, catDocURI string) ([]*obligation.GraphObligation, error) {
	out, err := r.driver.ExecuteRead(ctx, func(tx driver.Transaction) (any, error) {
		result, err := tx.Run(ctx, obligationsByDocumentCypher, map[string]any{
			"doc":           catDocURI,
			"hasObligation": r.hasObligation(),
			"rdfValue":      obligation.RDFValue,
			"rdfType":       obligation.RDFType,
			"prefLabel":     obligation.SKOSPrefLabel,
		})
		if err != nil {
			return nil, err
		}
		return driver.CollectRecords(ctx, result, mapGraphObligation)
	})
	if err != nil {
		return nil, err
	}
	obligations, _ := out.([]*obligation.GraphObligation)
	return obligations, nil
}

func mapGraphObligation(rec *neo4j.Record) (*obligation.GraphObligation, error) {
	uri, err := recordString(rec, "uri")
	if err != nil {
		return nil, err
	}
	value, err := recordString(rec, "value")
	if err != nil {
		return nil, err
	}

	o := &obligation.GraphObligation{URI: uri, Value: value}

	raw, _ := rec.Get("entities")
	entities, _ := raw.([]any)
	for _, item := range entities {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entityURI, _ := fields["uri"].(string)
		if entityURI == "" {
			continue
		}
		predicate, _ := fields["predicate"].(string)
		class, _ := fields["class"].(string)
		label, _ := fields["label"].(string)
		o.Entities = append(o.Entities, obligation.GraphEntity{
			URI:       entityURI,
			Predicate: predicate,
			Class:     class,
			Label:     label,
		})
	}
	return o, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Source unlinking
// ─────────────────────────────────────────────────────────────────────────────

const unlinkSourceCypher = `
MATCH (:Resource {uri: $doc})-[r:PREDICATE {uri: $hasSource}]->(:Resource)
DELETE r`

const removeSourceCypher = `
MATCH (:Resource {uri: $doc})-[r:PREDICATE {uri: $hasSource}]->(s:Resource)
OPTIONAL MATCH (s)-[:PREDICATE]->(l:Literal)
DETACH DELETE s, l`

func (r *obligationGraphRepo) RemoveDocumentSource(ctx context.Context, catDocURI string, unlinkOnly bool) error {
	cypher := removeSourceCypher
	if unlinkOnly {
		cypher = unlinkSourceCypher
	}

	_, err := r.driver.ExecuteWrite(ctx, func(tx driver.Transaction) (any, error) {
		return tx.Run(ctx, cypher, map[string]any{
			"doc":       catDocURI,
			"hasSource": r.hasSource(),
		})
	})
	return err
}

func recordString(rec *neo4j.Record, key string) (string, error) {
	raw, ok := rec.Get(key)
	if !ok {
		return "", errors.New(errors.ErrCodeDatabaseError, "missing record field "+key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", errors.New(errors.ErrCodeDatabaseError, "unexpected type for record field "+key)
	}
	return s, nil
}

//Personal.AI order the ending
