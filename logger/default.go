package logger

import (
	"fmt"
	"time"
)

type defaultLogger struct {
}

// Debug returns a logger printing every event to standard output.
func Debug() Logger {
	return &defaultLogger{}
}

func (d *defaultLogger) ResolveTime() ResolveTime {
	return d.logResolveTime
}

func (d *defaultLogger) OverallResolveTime() ResolveTime {
	return d.logOverallResolveTime
}

func (d *defaultLogger) ProjectionBuild() ProjectionBuild {
	return d.logProjectionBuild
}

func (d *defaultLogger) CacheEviction() CacheEviction {
	return d.logCacheEviction
}

func (d *defaultLogger) DispatchCall() DispatchCall {
	return d.logDispatchCall
}

func (d *defaultLogger) Log() Log {
	return d.logf
}

func (d *defaultLogger) logResolveTime(name string, start, end *time.Time, err error) {
	fmt.Printf("[LOGGER] resolving %v took %v, err: %v \n", name, end.Sub(*start), err)
}

func (d *defaultLogger) logOverallResolveTime(name string, start, end *time.Time, err error) {
	fmt.Printf("[LOGGER] overall %v took %v, err: %v \n", name, end.Sub(*start), err)
}

func (d *defaultLogger) logProjectionBuild(name, builderID, URL string, duration time.Duration, err error) {
	fmt.Printf("[LOGGER] building %v with %v from %v took %v, err: %v \n", name, builderID, URL, duration, err)
}

func (d *defaultLogger) logCacheEviction(name, previous, current string) {
	fmt.Printf("[LOGGER] evicting %v, fingerprint: %v -> %v \n", name, previous, current)
}

func (d *defaultLogger) logDispatchCall(target, method string, routed bool, err error) {
	fmt.Printf("[LOGGER] dispatching %v.%v, routed: %v, err: %v \n", target, method, routed, err)
}

func (d *defaultLogger) logf(message string, args ...interface{}) {
	fmt.Printf("[LOGGER] "+message+" \n", args...)
}
