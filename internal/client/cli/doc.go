// Package cli implements the gophdocs command-line client on top of the
// docstore package.
//
// Every command loads configuration (defaults, JSON file, flags), builds a
// docstore.Client for the configured server and prints results as JSON or
// YAML. The baseline cache lives in memory unless --baseline names a SQLite
// database, in which case `get` followed by `set` in a later run still sends
// a JSON Patch instead of the full document.
//
// Commands:
//
//	collections [--match glob]
//	get <collection> <id>
//	query <collection> [--filter expr | --script lua | --stored name --args json]
//	versions <collection> <id>
//	insert <collection> <json|->
//	set <collection> <id> <field> <value>
//	delete <collection> <id>...
//	mapreduce <collection> <map.lua> <reduce.lua>
//	attach <file>
//	download <collection> <id> <field> <path|s3://bucket/key>
package cli
