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

package conf

import (
	"errors"
	"time"

	"github.com/streamwise-io/streamwise/pkg/cast"
)

const ConfFileName = "streamwise.yaml"

const DefaultJoinStateTTL = 24 * time.Hour

var Config *StreamwiseConf

// PlanningConf carries the knobs the logical planner reads. Only the
// join state TTL is consumed today; new planning options belong here so
// the planner keeps a single read-only configuration surface.
type PlanningConf struct {
	// JoinStateTTL bounds how long an updating join buffers rows per key.
	JoinStateTTL cast.DurationConf `json:"joinStateTTL" yaml:"joinStateTTL"`
}

// Validate the configuration and reset to the default value for invalid values.
func (pc *PlanningConf) Validate() error {
	var errs error
	if pc.JoinStateTTL <= 0 {
		pc.JoinStateTTL = cast.DurationConf(DefaultJoinStateTTL)
		Log.Warnf("joinStateTTL is not positive, set to %v", DefaultJoinStateTTL)
		errs = errors.Join(errs, errors.New("joinStateTTL:joinStateTTL must be positive"))
	}
	return errs
}

type StreamwiseConf struct {
	Basic struct {
		Debug bool `yaml:"debug"`
	} `yaml:"basic"`
	Planning PlanningConf `yaml:"planning"`
}

func InitConf() {
	cfg := &StreamwiseConf{}
	cfg.Planning.JoinStateTTL = cast.DurationConf(DefaultJoinStateTTL)
	if err := LoadConfig(cfg); err != nil {
		Log.Warnf("load config failed, use default configs: %v", err)
	}
	if err := cfg.Planning.Validate(); err != nil {
		Log.Warnf("planning config invalid: %v", err)
	}
	if cfg.Basic.Debug {
		Log.SetLevel(debugLevel)
	}
	Config = cfg
}
