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
	"fmt"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/streamwise-io/streamwise/pkg/cast"
)

const Separator = "__"

func LoadConfig(c interface{}) error {
	dir := os.Getenv("STREAMWISE_CONF_DIR")
	if dir == "" {
		dir = "etc"
	}
	return LoadConfigFromPath(path.Join(dir, ConfFileName), c)
}

// LoadConfigFromPath reads the yaml file, overlays environment
// variables of the form <FILENAME>__section__key=value, then decodes
// into c.
func LoadConfigFromPath(p string, c interface{}) error {
	prefix := getPrefix(p)
	b, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	configMap := make(map[string]interface{})
	if err := yaml.Unmarshal(b, &configMap); err != nil {
		return err
	}
	if err := process(configMap, os.Environ(), prefix); err != nil {
		return err
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     c,
		TagName:    "yaml",
		DecodeHook: durationConfHook,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(configMap)
}

// durationConfHook lets mapstructure fill cast.DurationConf fields from
// the string or integer forms yaml produces.
func durationConfHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(cast.DurationConf(0)) {
		return data, nil
	}
	d, err := cast.ConvertDuration(data)
	if err != nil {
		return nil, err
	}
	return cast.DurationConf(d), nil
}

func getPrefix(p string) string {
	_, file := path.Split(p)
	return strings.ToUpper(strings.TrimSuffix(file, filepath.Ext(file)))
}

func process(configMap map[string]interface{}, variables []string, prefix string) error {
	for _, e := range variables {
		if !strings.HasPrefix(e, prefix+Separator) {
			continue
		}
		pair := strings.SplitN(e, "=", 2)
		if len(pair) != 2 {
			return fmt.Errorf("wrong format of variable %q", e)
		}
		keys := strings.Split(strings.TrimPrefix(pair[0], prefix+Separator), Separator)
		handle(configMap, keys, pair[1])
		Log.Infof("Set config '%s.%s' to '%s' by environment variable",
			strings.ToLower(prefix), strings.ToLower(strings.Join(keys, ".")), pair[1])
	}
	return nil
}

func handle(conf map[string]interface{}, keysLeft []string, val string) {
	key := getConfigKey(conf, keysLeft[0])
	if len(keysLeft) == 1 {
		conf[key] = getValueType(val)
		return
	}
	if v, ok := conf[key]; ok {
		if casted, success := v.(map[string]interface{}); success {
			handle(casted, keysLeft[1:], val)
			return
		}
	}
	next := make(map[string]interface{})
	conf[key] = next
	handle(next, keysLeft[1:], val)
}

// getConfigKey reuses an existing map key matching case-insensitively
// so environment overrides land on the same entry the yaml produced.
func getConfigKey(conf map[string]interface{}, name string) string {
	for k := range conf {
		if strings.EqualFold(k, name) {
			return k
		}
	}
	return strings.ToLower(name)
}

func getValueType(val string) interface{} {
	if i, err := strconv.ParseInt(val, 10, 64); err == nil {
		return i
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return f
	}
	return val
}
