package gderrors

import "github.com/cuemby/graphdb/pkg/log"

// Fatal logs an invariant violation at Fatal level and terminates the
// process (zerolog calls os.Exit(1) after writing a Fatal-level event;
// pkg/log itself has no Fatal helper). It never returns, so callers
// use it in place of `return err` for conditions that indicate corruption
// rather than caller error — a dangling edge observed during deleteVertex,
// a catalog overlay that fails to apply after validation already passed.
func Fatal(code Code, format string, args ...any) {
	e := Usage(code, format, args...)
	e.Category = CategoryFatal
	log.WithComponent("invariant").Fatal().Str("code", code.String()).Msg(e.Message)
}
