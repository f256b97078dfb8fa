package logger

import (
	"time"
)

type Log func(message string, args ...interface{})
type ResolveTime func(name string, start *time.Time, end *time.Time, err error)
type ProjectionBuild func(name, builderID, URL string, duration time.Duration, err error)
type CacheEviction func(name, previous, current string)
type DispatchCall func(target, method string, routed bool, err error)

type Logger interface {
	ResolveTime() ResolveTime
	OverallResolveTime() ResolveTime
	ProjectionBuild() ProjectionBuild
	CacheEviction() CacheEviction
	DispatchCall() DispatchCall
	Log() Log
}
