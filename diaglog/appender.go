// Copyright 2025 Poiesic Systems
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


package diaglog

import (
	"encoding/json"
	"os"
	"sync"
)

// Appender writes one JSON object per line to a file, creating it on first
// use. Safe for concurrent use.
type Appender struct {
	mu   sync.Mutex
	path string
}

// NewAppender creates an appender for the given file path. The file is not
// opened until the first Append.
func NewAppender(path string) *Appender {
	return &Appender{path: path}
}

// Path returns the file path this appender writes to.
func (a *Appender) Path() string {
	return a.path
}

// Append marshals v and writes it as one line. The file is opened and closed
// per call so external tools can rotate or truncate it between writes.
func (a *Appender) Append(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}
