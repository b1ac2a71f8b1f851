/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"os"

	yaml "gopkg.in/yaml.v2"
)

// ServiceTemplate is a named, pre-filled service entry an operator can
// reuse from the config file instead of spelling out the --service flag
// every time.
type ServiceTemplate struct {
	Protocol string `yaml:"protocol"`
	Param    string `yaml:"param"`
}

// Config represents the ipndctl.yaml configuration we expect to read from
// file: defaults applied by `encode` when a flag is omitted, and named
// service templates.
type Config struct {
	DefaultEID      string                     `yaml:"default_eid"`
	DefaultPeriod   uint16                      `yaml:"default_period"`
	ServiceTemplate map[string]ServiceTemplate `yaml:"service_templates"`
}

// ReadConfig reads config and unmarshals it from yaml into Config, the same
// shape fbclock/daemon.ReadConfig uses.
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Config{}
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
