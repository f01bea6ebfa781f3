// Package log provides the logging abstraction used across multbell.
//
// Components depend on the Logger interface only. The CLI wires a zerolog
// console logger through ZerologAdapter; tests and embedders that want
// silence use NoopLogger.
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//	logger.Info("listening", log.String("addr", "0.0.0.0:12060"))
package log
