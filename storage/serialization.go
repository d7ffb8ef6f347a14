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


package storage

import (
	"github.com/poiesic/categorit/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalCorrectionEntry serializes a CorrectionEntry to bytes.
func MarshalCorrectionEntry(entry *core.CorrectionEntry) []byte {
	buf := make([]byte, core.CorrectionEntryMUS.Size(*entry))
	core.CorrectionEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalCorrectionEntry deserializes a CorrectionEntry from bytes.
func UnmarshalCorrectionEntry(data []byte) (*core.CorrectionEntry, error) {
	entry, _, err := core.CorrectionEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// MarshalNegativeExample serializes a NegativeExample to bytes.
func MarshalNegativeExample(example *core.NegativeExample) []byte {
	buf := make([]byte, core.NegativeExampleMUS.Size(*example))
	core.NegativeExampleMUS.Marshal(*example, buf)
	return buf
}

// UnmarshalNegativeExample deserializes a NegativeExample from bytes.
func UnmarshalNegativeExample(data []byte) (*core.NegativeExample, error) {
	example, _, err := core.NegativeExampleMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &example, nil
}

// MarshalFailureRecord serializes a FailureRecord to bytes.
func MarshalFailureRecord(record *core.FailureRecord) []byte {
	buf := make([]byte, core.FailureRecordMUS.Size(*record))
	core.FailureRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalFailureRecord deserializes a FailureRecord from bytes.
func UnmarshalFailureRecord(data []byte) (*core.FailureRecord, error) {
	record, _, err := core.FailureRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalVector serializes an embedding vector to bytes.
func MarshalVector(vector []float32) []byte {
	buf := make([]byte, core.VectorMUS.Size(vector))
	core.VectorMUS.Marshal(vector, buf)
	return buf
}

// UnmarshalVector deserializes an embedding vector from bytes.
func UnmarshalVector(data []byte) ([]float32, error) {
	vector, _, err := core.VectorMUS.Unmarshal(data)
	return vector, err
}

// MarshalCorpusMeta serializes a CorpusMeta to bytes.
func MarshalCorpusMeta(meta *core.CorpusMeta) []byte {
	buf := make([]byte, core.CorpusMetaMUS.Size(*meta))
	core.CorpusMetaMUS.Marshal(*meta, buf)
	return buf
}

// UnmarshalCorpusMeta deserializes a CorpusMeta from bytes.
func UnmarshalCorpusMeta(data []byte) (*core.CorpusMeta, error) {
	meta, _, err := core.CorpusMetaMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}
