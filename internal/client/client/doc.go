// Package client contains the client-side building blocks of the gophauth
// CLI.
//
// # Overview
//
// The package provides:
//  1. The Client contract the CLI talks to: register, login, refresh,
//     logout and the identity resource calls.
//  2. GRPCClient, the gRPC implementation. It attaches the bearer access
//     token to every call and, when the server reports an expired token,
//     refreshes it once and retries the call.
//  3. Local persistence (InitDatabase, LoadTokens, SaveTokens) so that a
//     session survives between CLI invocations.
//
// # Error Handling
//
// gRPC statuses are mapped to sentinel errors callers can match with
// errors.Is: ErrUnauthorized, ErrForbidden, ErrNotFound, ErrRejected,
// ErrUnavailable. ErrNotLoggedIn is returned before any call that needs a
// session when there is none.
package client
