// Package cli implements spellctl, a one-shot command line client for the
// spell service.
//
// Usage:
//
//	spellctl [-c file] [-a addr] [-t token] [-T timeout] <command> [flags]
//
// Every command prints the server response as indented JSON. Run
// "spellctl help" for the command list.
package cli
