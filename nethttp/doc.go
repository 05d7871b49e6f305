// Copyright 2026 The Restmachine Authors
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

// Package nethttp hosts a machine.Application behind net/http.
//
// The adapter translates each *http.Request into the machine's in-process
// Request value, runs it through the decision graph, and writes the
// resulting Response back. It adds the hosting concerns the core leaves
// out: structured access logging, Prometheus request metrics, and the
// session-scoped "metrics" dependency handlers can resolve by name.
//
//	app := machine.MustNew()
//	app.GET("/healthz", health)
//
//	handler := nethttp.MustNew(app,
//		nethttp.WithLogger(slog.Default()),
//		nethttp.WithRegisterer(prometheus.DefaultRegisterer),
//	)
//	http.ListenAndServe(":8080", handler)
package nethttp
