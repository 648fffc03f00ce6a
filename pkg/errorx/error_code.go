// Copyright 2024 Streamwise Tech Co., Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errorx

type ErrorCode int

const (
	Undefined_Err ErrorCode = 1000
	GENERAL_ERR   ErrorCode = 1001
	ConfKeyError  ErrorCode = 1002

	// error code for plan rewriting

	PlanError                ErrorCode = 2101
	UnsupportedJoinShape     ErrorCode = 2102
	UnsupportedUpdatingInput ErrorCode = 2103
	MissingEquijoin          ErrorCode = 2104
	MalformedTimestamps      ErrorCode = 2105
	UpstreamConstruction     ErrorCode = 2106
)

// NewPlanError builds a plan-level error with one of the planner codes.
// The message is user visible; it is the only diagnostic the caller
// sees for a rejected plan.
func NewPlanError(code ErrorCode, format string, args ...any) error {
	return Newf(code, format, args...)
}

func IsPlanError(err error) bool {
	c := CodeOf(err)
	return c >= PlanError && c < 2200
}
