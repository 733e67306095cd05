// Package cli provides the interactive studyhub command-line client.
//
// It wires configuration, the HTTP API client, the in-memory stores and the
// services, then runs a REPL. Every input line is parsed by a fresh cobra
// command tree, so commands take the usual positional arguments and flags.
//
// Key features:
//   - Login / Logout with an access token
//   - Browse and organize the material tree: ls, cd, mkdir, mkset, rename,
//     mv, drag, rm
//   - Open a flashcard set, vote on it, add cards, copy it
//   - Threaded comments with votes
//   - Sharing: add and remove users, stage and save permission changes,
//     accept or reject incoming shares
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
