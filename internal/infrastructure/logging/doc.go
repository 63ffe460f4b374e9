// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: colored console output
//
// Session loops log through a child logger carrying the session and client
// ids, so every line from one terminal can be correlated:
//
//	logger := logging.NewDefault()
//	sessLog := logger.Session(sessionID, clientID)
//	sessLog.Debug("mode change", zap.String("mode", "capture"))
package logging
