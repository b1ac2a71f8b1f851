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

// Package ipndlog adapts logrus to the ipnd.Logger interface. The codec
// package itself stays dependency-free; callers that want the skip-with-
// warning events logged wire this in.
package ipndlog

import (
	log "github.com/sirupsen/logrus"
)

// Logrus implements ipnd.Logger on top of the package-level logrus logger,
// the same way cmd/ptpcheck/cmd uses a bare `log "github.com/sirupsen/logrus"`
// import rather than holding its own *logrus.Logger value.
type Logrus struct{}

// Warnf implements ipnd.Logger.
func (Logrus) Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}
