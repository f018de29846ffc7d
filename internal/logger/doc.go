// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger writing to stderr, colored only on terminals,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (InfoKV, WarnKV, etc.).
//
// The packager accepts a context and extracts the logger from it, so log lines
// stay scoped and structured while stdout is left to the progress output.
package logger
