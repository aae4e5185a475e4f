/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package service

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/suparena/entityservice/schema"
)

type options struct {
	log     logrus.FieldLogger
	schemas *schema.Registry
	now     func() time.Time
}

// Option configures services and the factory.
type Option func(*options)

func defaultOptions() options {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	return options{
		log: discard,
		now: time.Now,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger receiving debug traces. Nothing is logged by default.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithSchemas enables validation against the descriptors of r, typically
// schema.Default(). The fields a record carries are checked before the
// update; required fields are only enforced before an insert. Records are
// not validated by default, and a nil registry turns validation off again.
func WithSchemas(r *schema.Registry) Option {
	return func(o *options) {
		o.schemas = r
	}
}

// WithClock sets the time source for the created and modified timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
