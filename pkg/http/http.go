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

package http

import (
	"fmt"
	"time"
)

type Http struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ContextPath     string `mapstructure:"contextPath"`
	BodyLimit       int    `mapstructure:"bodyLimit"`
	AccessLog       bool   `mapstructure:"accessLog"`
	ReadTimeout     int    `mapstructure:"readTimeout"`
	WriteTimeout    int    `mapstructure:"writeTimeout"`
	IdleTimeout     int    `mapstructure:"idleTimeout"`
	ShutdownTimeout int    `mapstructure:"shutdownTimeout"`
	// RequestTimeout 单个请求内存储调用的超时，单位秒
	RequestTimeout int  `mapstructure:"requestTimeout"`
	Auth           Auth `mapstructure:"auth"`
}

type Auth struct {
	Secret        string `mapstructure:"secret"`
	Issuer        string `mapstructure:"issuer"`
	Audience      string `mapstructure:"audience"`
	ExpireMinutes int    `mapstructure:"expireMinutes"`
	// DefaultPassword 重置密码与初始化管理员使用
	DefaultPassword string `mapstructure:"defaultPassword"`
	// DefaultPasswordDigest 非空时重置密码直接写入该摘要
	DefaultPasswordDigest string `mapstructure:"defaultPasswordDigest"`
	BcryptCost            int    `mapstructure:"bcryptCost"`
}

func (h *Http) SetDefaults() {
	if h.Host == "" {
		h.Host = "0.0.0.0"
	}
	if h.Port == 0 {
		h.Port = 8080
	}
	if h.ContextPath == "" {
		h.ContextPath = "/api"
	}
	if h.BodyLimit <= 0 {
		h.BodyLimit = 4 * 1024 * 1024
	}
	if h.ReadTimeout <= 0 {
		h.ReadTimeout = 60
	}
	if h.WriteTimeout <= 0 {
		h.WriteTimeout = 60
	}
	if h.IdleTimeout <= 0 {
		h.IdleTimeout = 120
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 30
	}
	if h.RequestTimeout <= 0 {
		h.RequestTimeout = 30
	}
	h.Auth.SetDefaults()
}

func (a *Auth) SetDefaults() {
	if a.Issuer == "" {
		a.Issuer = "AdminSystem"
	}
	if a.Audience == "" {
		a.Audience = "AdminSystemAPI"
	}
	if a.ExpireMinutes <= 0 {
		a.ExpireMinutes = 120
	}
	if a.DefaultPassword == "" {
		a.DefaultPassword = "123456"
	}
}

func (h *Http) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

func (h *Http) GetRequestTimeout() time.Duration {
	return time.Duration(h.RequestTimeout) * time.Second
}

func (a *Auth) TTL() time.Duration {
	return time.Duration(a.ExpireMinutes) * time.Minute
}
