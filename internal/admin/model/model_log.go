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

package model

import (
	"time"
)

type OperationType int

const (
	OperationQuery OperationType = iota
	OperationCreate
	OperationUpdate
	OperationDelete
	OperationLogin
	OperationLogout
	OperationExport
	OperationImport
)

// 审计表不定义 TableName，表前缀由所在数据源的命名策略决定

// OperationLog 操作日志，只追加
type OperationLog struct {
	BaseModel
	TraceId       string        `gorm:"column:trace_id;size:26;index" json:"traceId"`
	UserId        *uint64       `gorm:"column:user_id;index" json:"userId"`
	UserName      string        `gorm:"column:user_name;size:50" json:"userName"`
	OperationType OperationType `gorm:"column:operation_type" json:"operationType"`
	Module        string        `gorm:"column:module;size:50;index" json:"module"`
	Content       string        `gorm:"column:content;size:500" json:"content"`
	RequestUrl    string        `gorm:"column:request_url;size:500" json:"requestUrl"`
	RequestMethod string        `gorm:"column:request_method;size:10" json:"requestMethod"`
	RequestParams string        `gorm:"column:request_params;type:text" json:"requestParams"`
	Response      string        `gorm:"column:response;type:text" json:"response"`
	IpAddress     string        `gorm:"column:ip_address;size:50" json:"ipAddress"`
	Location      string        `gorm:"column:location;size:100" json:"location"`
	Browser       string        `gorm:"column:browser;size:100" json:"browser"`
	Os            string        `gorm:"column:os;size:100" json:"os"`
	Duration      int64         `gorm:"column:duration" json:"duration"`
	IsSuccess     bool          `gorm:"column:is_success" json:"isSuccess"`
	ErrorMessage  string        `gorm:"column:error_message;size:1000" json:"errorMessage"`
}

// LoginLog 登录日志，失败原因只用于审计
type LoginLog struct {
	BaseModel
	UserId        *uint64   `gorm:"column:user_id;index" json:"userId"`
	UserName      string    `gorm:"column:user_name;size:50;index" json:"userName"`
	IpAddress     string    `gorm:"column:ip_address;size:50" json:"ipAddress"`
	Location      string    `gorm:"column:location;size:100" json:"location"`
	Browser       string    `gorm:"column:browser;size:100" json:"browser"`
	Os            string    `gorm:"column:os;size:100" json:"os"`
	LoginTime     time.Time `gorm:"column:login_time;index" json:"loginTime"`
	IsSuccess     bool      `gorm:"column:is_success" json:"isSuccess"`
	FailureReason string    `gorm:"column:failure_reason;size:200" json:"failureReason"`
	LoginType     string    `gorm:"column:login_type;size:20" json:"loginType"`
}
