package logger

import (
	"os"
	"time"
)

type Adapter struct {
	resolveTime        ResolveTime
	overallResolveTime ResolveTime
	projectionBuild    ProjectionBuild
	cacheEviction      CacheEviction
	dispatchCall       DispatchCall
	log                Log
}

func (l *Adapter) ResolveTime(name string, start, end *time.Time, err error) {
	if l.resolveTime == nil {
		return
	}

	l.resolveTime(name, start, end, err)
}

func (l *Adapter) OverallResolveTime(name string, start, end *time.Time, err error) {
	if l.overallResolveTime == nil {
		return
	}

	l.overallResolveTime(name, start, end, err)
}

func (l *Adapter) ProjectionBuild(name, builderID, URL string, duration time.Duration, err error) {
	if l.projectionBuild == nil {
		return
	}

	l.projectionBuild(name, builderID, URL, duration, err)
}

func (l *Adapter) CacheEviction(name, previous, current string) {
	if l.cacheEviction == nil {
		return
	}

	l.cacheEviction(name, previous, current)
}

func (l *Adapter) DispatchCall(target, method string, routed bool, err error) {
	if l.dispatchCall == nil {
		return
	}

	l.dispatchCall(target, method, routed, err)
}

func (l *Adapter) Log(message string, args ...interface{}) {
	if l.log == nil {
		return
	}

	l.log(message, args...)
}

func NewLogger(logger Logger) *Adapter {
	if logger == nil {
		return &Adapter{}
	}

	return &Adapter{
		resolveTime:        logger.ResolveTime(),
		overallResolveTime: logger.OverallResolveTime(),
		projectionBuild:    logger.ProjectionBuild(),
		cacheEviction:      logger.CacheEviction(),
		dispatchCall:       logger.DispatchCall(),
		log:                logger.Log(),
	}
}

func Default() *Adapter {
	if os.Getenv("TYPLY_DEBUG") == "" {
		return NewLogger(nil)
	}
	return NewLogger(&defaultLogger{})
}
