package logger

import (
	"time"
)

// TimeLogger logs only resolutions slower than the configured thresholds.
type TimeLogger struct {
	resolve       time.Duration
	overall       time.Duration
	defaultLogger defaultLogger
}

func (t *TimeLogger) OverallResolveTime() ResolveTime {
	return func(name string, start *time.Time, end *time.Time, err error) {
		if end.Sub(*start) < t.overall {
			return
		}

		t.defaultLogger.logOverallResolveTime(name, start, end, err)
	}
}

func NewTimeLogger(resolve, overall time.Duration) *TimeLogger {
	return &TimeLogger{
		resolve: resolve,
		overall: overall,
	}
}

func (t *TimeLogger) ProjectionBuild() ProjectionBuild {
	return nil
}

func (t *TimeLogger) CacheEviction() CacheEviction {
	return nil
}

func (t *TimeLogger) DispatchCall() DispatchCall {
	return nil
}

func (t *TimeLogger) Log() Log {
	return nil
}

func (t *TimeLogger) ResolveTime() ResolveTime {
	return func(name string, start *time.Time, end *time.Time, err error) {
		if end.Sub(*start) < t.resolve {
			return
		}

		t.defaultLogger.logResolveTime(name, start, end, err)
	}
}
