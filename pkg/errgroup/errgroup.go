/*
Copyright 2023 The Nuclio Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package errgroup

import (
	"context"

	"github.com/nuclio/deepatlantic/pkg/common"

	"github.com/nuclio/logger"
	"golang.org/x/sync/errgroup"
)

const DefaultErrgroupConcurrency = 10

// Group is an errgroup whose goroutines turn panics into errors instead of crashing the process
type Group struct {
	*errgroup.Group
	logger logger.Logger
	ctx    context.Context
}

// WithContext creates a group that runs at most concurrency goroutines at once. A non positive
// concurrency means DefaultErrgroupConcurrency
func WithContext(ctx context.Context, loggerInstance logger.Logger, concurrency int) (*Group, context.Context) {
	newBaseErrgroup, errgroupCtx := errgroup.WithContext(ctx)

	if concurrency <= 0 {
		concurrency = DefaultErrgroupConcurrency
	}

	newBaseErrgroup.SetLimit(concurrency)

	return &Group{
		Group:  newBaseErrgroup,
		logger: loggerInstance,
		ctx:    errgroupCtx,
	}, errgroupCtx
}

func (g *Group) Go(actionName string, f func() error) {
	g.Group.Go(func() (err error) {
		defer common.CatchAndLogPanic(g.ctx, g.logger, actionName, &common.CatchAndLogPanicOptions{
			CustomHandler: func(panicErr error) {
				err = panicErr
			},
		})

		return f()
	})
}
