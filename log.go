// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package restx

import (
	"github.com/gogama/restx/request"
	"github.com/gogama/restx/transient"
	"go.uber.org/zap"
)

// LogHandlers returns a handler group which logs every event of every
// call to logger.
//
// Preparations and sends are logged at debug level. A completed call
// is logged at info level, and a transport failure at warn level along
// with the transience category of the error.
func LogHandlers(logger *zap.Logger) *HandlerGroup {
	if logger == nil {
		panic("restx: nil logger")
	}

	g := &HandlerGroup{}
	g.PushBack(AfterPrepare, HandlerFunc(func(_ Event, e *request.Execution) {
		logger.Debug("prepared request plan",
			zap.String("method", e.Method),
			zap.String("url", e.URL),
			zap.Int("bodyBytes", len(e.Plan.Body)))
	}))
	g.PushBack(BeforeSend, HandlerFunc(func(_ Event, e *request.Execution) {
		logger.Debug("sending request",
			zap.String("method", e.Method),
			zap.String("url", e.URL),
			zap.Bool("cached", e.Cached))
	}))
	g.PushBack(AfterSend, HandlerFunc(func(_ Event, e *request.Execution) {
		if e.Err != nil {
			category := transient.Categorize(e.Err)
			logger.Warn("request failed",
				zap.String("method", e.Method),
				zap.String("url", e.URL),
				zap.Duration("duration", e.Duration()),
				zap.Stringer("category", category),
				zap.Bool("transient", category.Transient()),
				zap.Error(e.Err))
			return
		}
		logger.Info("request complete",
			zap.String("method", e.Method),
			zap.String("url", e.URL),
			zap.Int("status", e.StatusCode()),
			zap.Int("bodyBytes", len(e.Response.Body)),
			zap.Duration("duration", e.Duration()))
	}))
	return g
}
