// Package cli is the gophauth command-line client.
//
// Every invocation runs one command: register, login, refresh, logout, me,
// or one of the users subcommands. The session obtained by login is kept in
// a local SQLite file, so later invocations reuse it until logout. Expired
// access tokens are refreshed transparently by the underlying client.
package cli
