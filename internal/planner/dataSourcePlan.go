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
	"github.com/streamwise-io/streamwise/pkg/ast"
	"github.com/streamwise-io/streamwise/pkg/schema"
)

// DataSourcePlan is a leaf reading one stream with a declared schema.
type DataSourcePlan struct {
	baseLogicalPlan
	name         ast.StreamName
	streamFields *schema.Schema
}

func (p DataSourcePlan) Init() *DataSourcePlan {
	p.baseLogicalPlan.self = &p
	return &p
}

func NewDataSourcePlan(name ast.StreamName, streamFields *schema.Schema) *DataSourcePlan {
	return DataSourcePlan{name: name, streamFields: streamFields}.Init()
}

func (p *DataSourcePlan) Schema() *schema.Schema {
	return p.streamFields
}

func (p *DataSourcePlan) ExplainInfo() string {
	return "DataSource{ source:" + string(p.name) + " }"
}
