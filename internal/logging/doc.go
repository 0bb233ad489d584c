// Package logger provides leveled, colored logging for huna commands.
//
// # Verbosity Levels
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: Shows info and warning messages
//   - --debug: Shows all messages including debug details
//
// Without flags only critical warnings are shown. Errors meant for the user
// are rendered by the cmd layer, not by the logger.
//
// # Log Methods
//
//	Logger.Infof()          // Shown with --verbose or --debug
//	Logger.Debugf()         // Shown only with --debug
//	Logger.Warnf()          // Shown with --verbose or --debug
//	Logger.WarnfAlways()    // Always shown (critical warnings)
//	Logger.Errorf()         // Shown with --verbose or --debug
//	Logger.ErrorfAndReturn() // Errorf, then returns the formatted error
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Processing %d files", count)
//
// Commands create a logger in their PersistentPreRun and hand it to the
// workflows engine.
package logger
