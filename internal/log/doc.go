// Package log provides secure logging for PhishLens, built on top of the
// standard slog package.
//
// The SecureHandler masks values that must never reach a log file:
//   - the inference API key, whether passed as an attribute, a header or
//     embedded in a request URL
//   - the scanned email content, which routinely carries personal data
//   - bearer tokens, passwords and other generic credentials
//
// Masking applies in verbose mode too.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("inference request",
//	    "url", "https://generativelanguage.googleapis.com/v1beta/models/m:generateContent?key=AIza...",
//	    "content", body, // logged as ***REDACTED***
//	)
//	slog.SetDefault(logger)
package log
