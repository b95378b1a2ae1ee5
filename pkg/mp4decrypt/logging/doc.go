// Package logging provides a minimal logging facade for the mp4decrypt
// wrapper and its tools.
//
// The library core never logs on its own; every decrypt outcome is a return
// value. This package exists for the edges (the CLI, services embedding the
// wrapper) so they share one context-aware interface over log/slog without
// forcing a logging framework on importers.
//
// # Usage
//
//	logger := logging.NewText(os.Stderr, slog.LevelInfo)
//	logger.Info(ctx, "decrypted stream",
//	    "bytes_in", len(data),
//	    "bytes_out", len(out),
//	    logging.Redacted("keys"),
//	)
//
// # Redaction
//
// Key material is secret. Never log map values or hex keys; pass
// logging.Redacted("keys") (or similar) so the log line records that the
// value was deliberately withheld. KIDs and track indexes are identifiers,
// not secrets, and may be logged as-is.
package logging
