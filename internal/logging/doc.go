// Package logging provides structured logging for the intake client.
//
// It wraps Go's log/slog to emit JSON lines, either to {dir}/intake.log or
// to stderr. Child loggers carry persistent attributes such as the selected
// date or the remote operation being performed:
//
//	logger, err := logging.NewLogger(dir, "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.WithDate("2024-05-01").WithOp("list days").Warn("request failed", "status", 503)
//
// Output:
//
//	{"time":"...","level":"WARN","msg":"request failed","date":"2024-05-01","op":"list days","status":503}
//
// Tests use [NopLogger] to discard output.
package logging
