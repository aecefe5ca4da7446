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

// fiber Locals 键
const (
	// DETAIL handler 写入的响应数据
	DETAIL = "detail"
	// OPERATION handler 写入表示操作成功且无数据
	OPERATION = "operation"
	CLAIMS    = "claims"
	REQUESTID = "request_id"
	IP        = "ip"
)
