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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamwise-io/streamwise/pkg/cast"
)

func writeConf(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), ConfFileName)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadConfigFromPath(t *testing.T) {
	p := writeConf(t, `
basic:
  debug: true
planning:
  joinStateTTL: 30m
`)
	c := &StreamwiseConf{}
	require.NoError(t, LoadConfigFromPath(p, c))
	assert.True(t, c.Basic.Debug)
	assert.Equal(t, 30*time.Minute, time.Duration(c.Planning.JoinStateTTL))
}

func TestLoadConfigEnvOverride(t *testing.T) {
	p := writeConf(t, `
planning:
  joinStateTTL: 30m
`)
	t.Setenv("STREAMWISE__PLANNING__JOINSTATETTL", "1h")
	c := &StreamwiseConf{}
	require.NoError(t, LoadConfigFromPath(p, c))
	assert.Equal(t, time.Hour, time.Duration(c.Planning.JoinStateTTL))
}

func TestPlanningValidateResetsInvalidTTL(t *testing.T) {
	pc := &PlanningConf{JoinStateTTL: 0}
	err := pc.Validate()
	require.Error(t, err)
	assert.Equal(t, cast.DurationConf(DefaultJoinStateTTL), pc.JoinStateTTL)

	pc = &PlanningConf{JoinStateTTL: cast.DurationConf(time.Minute)}
	assert.NoError(t, pc.Validate())
	assert.Equal(t, cast.DurationConf(time.Minute), pc.JoinStateTTL)
}
