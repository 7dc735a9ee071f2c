/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

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

// Package loader reads record sets from files and loads them into a
// mutable record store before the tree is built.
package loader

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"

	"github.com/bbva/reserves/log"
	"github.com/bbva/reserves/storage"
)

// Supported record file formats.
const (
	JSON    = "json"
	CSV     = "csv"
	MsgPack = "msgpack"
)

// ErrUnknownFormat is returned for a format the loader cannot read.
var ErrUnknownFormat = errors.New("unknown records format")

// record is the file representation of a storage.Record.
type record struct {
	ID      uint64 `json:"id" msgpack:"id"`
	Balance uint64 `json:"balance" msgpack:"balance"`
}

// DemoRecords returns the built-in dataset: ids 1 to 8 with a balance of
// 1111 times the id.
func DemoRecords() []storage.Record {
	records := make([]storage.Record, 8)
	for i := range records {
		id := uint64(i + 1)
		records[i] = storage.Record{ID: id, Balance: id * 1111}
	}
	return records
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV
	case ".msgpack", ".mp":
		return MsgPack
	default:
		return JSON
	}
}

// Read decodes records in the given format.
func Read(r io.Reader, format string) ([]storage.Record, error) {
	switch strings.ToLower(format) {
	case JSON:
		var entries []record
		if err := json.NewDecoder(r).Decode(&entries); err != nil {
			return nil, errors.Wrap(err, "decoding json records")
		}
		return fromEntries(entries), nil
	case MsgPack:
		var entries []record
		if err := msgpack.NewDecoder(r).Decode(&entries); err != nil {
			return nil, errors.Wrap(err, "decoding msgpack records")
		}
		return fromEntries(entries), nil
	case CSV:
		return readCSV(r)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "format %q", format)
	}
}

// Write encodes records in the given format.
func Write(w io.Writer, format string, records []storage.Record) error {
	switch strings.ToLower(format) {
	case JSON:
		return json.NewEncoder(w).Encode(toEntries(records))
	case MsgPack:
		return msgpack.NewEncoder(w).Encode(toEntries(records))
	case CSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"id", "balance"}); err != nil {
			return err
		}
		for _, r := range records {
			row := []string{strconv.FormatUint(r.ID, 10), strconv.FormatUint(r.Balance, 10)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return errors.Wrapf(ErrUnknownFormat, "format %q", format)
	}
}

// ReadFile reads a records file. An empty format is inferred from the path.
func ReadFile(path, format string) ([]storage.Record, error) {
	if format == "" {
		format = FormatFromPath(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening records file %s", path)
	}
	defer f.Close()
	return Read(f, format)
}

// Load fills the store with the records of path, or with the demo dataset
// when path is empty. It returns the number of records loaded.
func Load(store storage.MutableStore, path, format string) (int, error) {
	records := DemoRecords()
	if path != "" {
		var err error
		if records, err = ReadFile(path, format); err != nil {
			return 0, err
		}
		log.Infof("Read %d records from %s", len(records), path)
	} else {
		log.Infof("No records file given, loading %d demo records", len(records))
	}

	if err := store.Load(records); err != nil {
		return 0, errors.Wrap(err, "loading records")
	}
	return len(records), nil
}

func readCSV(r io.Reader) ([]storage.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var records []storage.Record
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "decoding csv records")
		}

		id, err := strconv.ParseUint(row[0], 10, 64)
		if err != nil {
			// a leading header row is allowed
			if line == 1 {
				continue
			}
			return nil, errors.Wrapf(err, "line %d: invalid id", line)
		}
		balance, err := strconv.ParseUint(row[1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: invalid balance", line)
		}
		records = append(records, storage.Record{ID: id, Balance: balance})
	}
}

func fromEntries(entries []record) []storage.Record {
	records := make([]storage.Record, len(entries))
	for i, e := range entries {
		records[i] = storage.Record{ID: e.ID, Balance: e.Balance}
	}
	return records
}

func toEntries(records []storage.Record) []record {
	entries := make([]record, len(records))
	for i, r := range records {
		entries[i] = record{ID: r.ID, Balance: r.Balance}
	}
	return entries
}
