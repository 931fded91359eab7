// Package postgres provides PostgreSQL implementations of the store
// interfaces. All stores accept a store.DBTX so they can run against a
// database connection or inside a transaction interchangeably.
package postgres
