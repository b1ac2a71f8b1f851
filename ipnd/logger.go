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

package ipnd

// Logger receives notice of recoverable skip events during beacon
// deserialization. The codec never imports a logging package itself;
// callers wire in their own implementation.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// NopLogger discards every message. It is the default when a caller passes
// a nil Logger to DeserializeDiscoveryBeacon.
type NopLogger struct{}

// Warnf implements Logger.
func (NopLogger) Warnf(string, ...interface{}) {}
