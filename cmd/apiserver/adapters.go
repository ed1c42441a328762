package main

import (
	"context"

	neo4jdriver "github.com/regcat-io/regcat/internal/infrastructure/database/neo4j"
	"github.com/regcat-io/regcat/internal/infrastructure/database/postgres"
	"github.com/regcat-io/regcat/internal/infrastructure/database/redis"
)

// Readiness adapters for the health handler.

type postgresHealthAdapter struct {
	conn *postgres.Connection
}

func (a *postgresHealthAdapter) Name() string { return "postgres" }

func (a *postgresHealthAdapter) Check(ctx context.Context) error {
	return a.conn.HealthCheck(ctx)
}

type neo4jHealthAdapter struct {
	driver *neo4jdriver.Driver
}

func (a *neo4jHealthAdapter) Name() string { return "neo4j" }

func (a *neo4jHealthAdapter) Check(ctx context.Context) error {
	return a.driver.HealthCheck(ctx)
}

type redisHealthAdapter struct {
	client *redis.Client
}

func (a *redisHealthAdapter) Name() string { return "redis" }

func (a *redisHealthAdapter) Check(ctx context.Context) error {
	return a.client.Ping(ctx)
}

//Personal.AI order the ending
