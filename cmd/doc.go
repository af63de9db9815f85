// Package cmd wires the tinyRedis command line interface: the server
// (serve), the interactive client (repl), the load generator (bench) and
// version information. Configuration flows through cobra flags, TINYREDIS_*
// environment variables and optional .env files.
package cmd
