// Package results stores the history of evaluation runs in a local SQLite
// database so scores can be listed and compared after the fact.
package results
