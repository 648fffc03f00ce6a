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

package planner

import (
	"github.com/streamwise-io/streamwise/internal/conf"
	"github.com/streamwise-io/streamwise/pkg/cast"
)

func optRuleList(oracle WindowOracle, options *conf.PlanningConf) []logicalOptRule {
	return []logicalOptRule{
		&streamJoinRewrite{oracle: oracle, options: options},
	}
}

func optimize(p LogicalPlan, oracle WindowOracle, options *conf.PlanningConf) (LogicalPlan, error) {
	var err error
	for _, rule := range optRuleList(oracle, options) {
		conf.Log.Debugf("apply optimize rule %s", rule.name())
		p, err = rule.optimize(p)
		if err != nil {
			return nil, err
		}
	}
	return p, err
}

// Rewrite is the pass entry point. It applies the streaming rewrite
// rules bottom-up and returns the rewritten plan, or the first
// rejection. Planning options come from the global configuration.
func Rewrite(p LogicalPlan) (LogicalPlan, error) {
	options := &conf.PlanningConf{JoinStateTTL: cast.DurationConf(conf.DefaultJoinStateTTL)}
	if conf.Config != nil {
		options = &conf.Config.Planning
	}
	return optimize(p, DefaultWindowOracle(), options)
}

// RewriteWith runs the pass with an explicit oracle and planning
// options, for callers that embed the planner.
func RewriteWith(p LogicalPlan, oracle WindowOracle, options *conf.PlanningConf) (LogicalPlan, error) {
	return optimize(p, oracle, options)
}
