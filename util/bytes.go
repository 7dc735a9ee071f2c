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

// Package util implements small helpers shared by the storage backends and
// the command line.
package util

import (
	"encoding/binary"
	"fmt"
)

// Uint64AsBytes encodes i in big endian so that the byte order of the
// encoded values matches their numeric order.
func Uint64AsBytes(i uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, i)
	return b
}

// BytesAsUint64 decodes a value produced by Uint64AsBytes.
func BytesAsUint64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("expected 8 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// Uint64AsPaddedString formats i with 20 zero-padded decimal digits, the
// width of the largest uint64, so that lexical order equals numeric order.
func Uint64AsPaddedString(i uint64) string {
	return fmt.Sprintf("%020d", i)
}
