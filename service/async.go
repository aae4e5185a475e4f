/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package service

import (
	"context"
	"fmt"

	"github.com/suparena/entityservice/errors"
	"github.com/suparena/entityservice/storagemodels"
)

// Result is the single completion value of an asynchronous operation.
type Result[T any] struct {
	Value T
	Err   error
}

// goResult runs fn on its own goroutine. The returned channel receives
// exactly one Result and is then closed.
func goResult[T any](fn func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		v, err := fn()
		ch <- Result[T]{Value: v, Err: err}
	}()
	return ch
}

// SaveAsync runs svc.Save in the background. Argument errors are returned
// immediately; datastore errors arrive on the channel.
func SaveAsync(ctx context.Context, svc Service, record storagemodels.Record) (<-chan Result[storagemodels.Record], error) {
	if svc == nil {
		return nil, errors.NewPreconditionError("service", "must not be nil")
	}
	if record == nil {
		return nil, errors.NewPreconditionError("record", fmt.Sprintf("please define a %s which should be saved", svc.Kind()))
	}
	return goResult(func() (storagemodels.Record, error) {
		return svc.Save(ctx, record)
	}), nil
}

// FindAllAsync runs svc.FindAll in the background.
func FindAllAsync(ctx context.Context, svc Service) (<-chan Result[[]storagemodels.Record], error) {
	if svc == nil {
		return nil, errors.NewPreconditionError("service", "must not be nil")
	}
	return goResult(func() ([]storagemodels.Record, error) {
		return svc.FindAll(ctx)
	}), nil
}

// FindByIDAsync runs svc.FindByID in the background.
func FindByIDAsync(ctx context.Context, svc Service, id string) (<-chan Result[storagemodels.Record], error) {
	if svc == nil {
		return nil, errors.NewPreconditionError("service", "must not be nil")
	}
	if id == "" {
		return nil, errors.NewPreconditionError("id", fmt.Sprintf("please define an id for the %s that should be found", svc.Kind()))
	}
	return goResult(func() (storagemodels.Record, error) {
		return svc.FindByID(ctx, id)
	}), nil
}

// FindByIDsAsync runs FindByIDs in the background. It fails immediately with a
// ConfigurationError when svc does not support batch lookups.
func FindByIDsAsync(ctx context.Context, svc Service, ids []string) (<-chan Result[[]storagemodels.Record], error) {
	if svc == nil {
		return nil, errors.NewPreconditionError("service", "must not be nil")
	}
	finder, ok := svc.(BatchFinder)
	if !ok {
		return nil, errors.NewConfigurationError(svc.Kind().String(), "service does not support finding by ids", nil)
	}
	return goResult(func() ([]storagemodels.Record, error) {
		return finder.FindByIDs(ctx, ids)
	}), nil
}
