// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

// Package stack defines the identity of the stack being deployed and the
// registry its image is published to.
//
// Derived names:
//
//	Identity{Name: "widget", Owner: "acme"}.Package()  // "acme/widget"
//	Identity{Name: "widget"}.Package()                 // "widget"
//	Identity{Name: "my.app"}.DNSName()                 // "my-app"
//	RegistryAddress{Hostname: "localhost", Port: "5000"}.Tag("widget")
//	                                                   // "localhost:5000/widget"
//
// Values are computed from configuration at the start of each run and never
// persisted.
package stack
