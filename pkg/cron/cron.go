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

// Package cron 在 robfig/cron 之上提供具名任务、错误日志和运行指标
package cron

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-arcade/arcade-admin/pkg/log"
	"github.com/robfig/cron"
	"go.uber.org/zap"
)

var ErrDuplicateName = errors.New("cron job name already registered")

// Recorder 记录任务运行情况，metrics 包提供 prometheus 实现
type Recorder interface {
	RecordJobRun(name string, duration time.Duration, err error)
}

type Entry struct {
	Name string
	Spec string
	Next time.Time
	Prev time.Time
}

type Cron struct {
	c        *cron.Cron
	recorder Recorder
	mu       sync.Mutex
	specs    map[string]string
	jobs     map[string]*namedJob
	running  bool
}

type OpOption func(*Cron)

func WithRecorder(r Recorder) OpOption {
	return func(c *Cron) {
		c.recorder = r
	}
}

func WithLocation(loc *time.Location) OpOption {
	return func(c *Cron) {
		c.c = cron.NewWithLocation(loc)
	}
}

func New(opts ...OpOption) *Cron {
	c := &Cron{
		c:     cron.New(),
		specs: make(map[string]string),
		jobs:  make(map[string]*namedJob),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.c.ErrorLog = zap.NewStdLog(log.GetLogger().Desugar())
	return c
}

type namedJob struct {
	name     string
	fn       func() error
	recorder Recorder
}

func (j *namedJob) Run() {
	start := time.Now()
	err := j.fn()
	duration := time.Since(start)
	if err != nil {
		log.Errorw("cron job failed", "job", j.name, "duration", duration.String(), "error", err)
	} else {
		log.Debugw("cron job finished", "job", j.name, "duration", duration.String())
	}
	if j.recorder != nil {
		j.recorder.RecordJobRun(j.name, duration, err)
	}
}

// AddFunc 注册具名任务，spec 支持秒级六段表达式与 @daily 等描述符
func (c *Cron) AddFunc(spec string, cmd func() error, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.specs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	job := &namedJob{name: name, fn: cmd, recorder: c.recorder}
	if err := c.c.AddJob(spec, job); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	c.specs[name] = spec
	c.jobs[name] = job
	log.Infow("cron job registered", "job", name, "spec", spec)
	return nil
}

func (c *Cron) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.c.Start()
	c.running = true
}

func (c *Cron) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.c.Stop()
	c.running = false
}

func (c *Cron) Entries() []*Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Entry, 0, len(c.jobs))
	for _, e := range c.c.Entries() {
		job, ok := e.Job.(*namedJob)
		if !ok {
			continue
		}
		out = append(out, &Entry{Name: job.name, Spec: c.specs[job.name], Next: e.Next, Prev: e.Prev})
	}
	return out
}

// Run 立即同步执行一次具名任务
func (c *Cron) Run(name string) error {
	c.mu.Lock()
	job, ok := c.jobs[name]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("cron job not found: %s", name)
	}
	job.Run()
	return nil
}
