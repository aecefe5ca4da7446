// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package trace

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const gormTracerName = "github.com/go-arcade/arcade-admin/pkg/trace/gorm"

type gormSpanKey struct{}

type gormSpan struct {
	span  trace.Span
	start time.Time
}

// GormPlugin 为每条 SQL 创建 client span
type GormPlugin struct {
	System    string
	WithQuery bool
}

func (p *GormPlugin) Name() string {
	return "opentelemetry"
}

func (p *GormPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		operation string
		before    error
		after     error
	}{
		{"create", cb.Create().Before("gorm:create").Register("otel:before_create", p.before("create")),
			cb.Create().After("gorm:create").Register("otel:after_create", p.after)},
		{"query", cb.Query().Before("gorm:query").Register("otel:before_query", p.before("query")),
			cb.Query().After("gorm:query").Register("otel:after_query", p.after)},
		{"update", cb.Update().Before("gorm:update").Register("otel:before_update", p.before("update")),
			cb.Update().After("gorm:update").Register("otel:after_update", p.after)},
		{"delete", cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before("delete")),
			cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after)},
		{"row", cb.Row().Before("gorm:row").Register("otel:before_row", p.before("row")),
			cb.Row().After("gorm:row").Register("otel:after_row", p.after)},
		{"raw", cb.Raw().Before("gorm:raw").Register("otel:before_raw", p.before("raw")),
			cb.Raw().After("gorm:raw").Register("otel:after_raw", p.after)},
	}
	for _, h := range hooks {
		if h.before != nil {
			return h.before
		}
		if h.after != nil {
			return h.after
		}
	}
	return nil
}

func (p *GormPlugin) before(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement == nil || db.Statement.Context == nil {
			return
		}
		ctx, span := otel.Tracer(gormTracerName).Start(db.Statement.Context, "gorm."+operation,
			trace.WithSpanKind(trace.SpanKindClient))

		attrs := []attribute.KeyValue{
			attribute.String("db.system", p.System),
			attribute.String("db.operation", operation),
		}
		if db.Statement.Table != "" {
			attrs = append(attrs, attribute.String("db.sql.table", db.Statement.Table))
		}
		span.SetAttributes(attrs...)

		db.Statement.Context = contextWithGormSpan(ctx, &gormSpan{span: span, start: time.Now()})
	}
}

func (p *GormPlugin) after(db *gorm.DB) {
	if db.Statement == nil || db.Statement.Context == nil {
		return
	}
	s, ok := db.Statement.Context.Value(gormSpanKey{}).(*gormSpan)
	if !ok {
		return
	}
	defer s.span.End()

	s.span.SetAttributes(
		attribute.Int64("db.duration_ms", time.Since(s.start).Milliseconds()),
		attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
	)
	if p.WithQuery {
		s.span.SetAttributes(attribute.String("db.statement", db.Statement.SQL.String()))
	}
	if err := db.Error; err != nil && err != gorm.ErrRecordNotFound {
		s.span.SetStatus(codes.Error, err.Error())
		s.span.RecordError(err)
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
}

func RegisterGormPlugin(db *gorm.DB, system string, withQuery bool) error {
	return db.Use(&GormPlugin{System: system, WithQuery: withQuery})
}
