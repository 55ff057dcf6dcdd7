package tb

import "tbprof/internal/logging"

func warnf(format string, args ...any)  { logging.Default().Warnf(format, args...) }
func infof(format string, args ...any)  { logging.Default().Infof(format, args...) }
func debugf(format string, args ...any) { logging.Default().Debugf(format, args...) }
