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

package protocol

type Scheme string

const (
	Http  Scheme = "http"
	Https Scheme = "https"
)

// Info is the public struct that apihttp.InfoHandler call returns.
type Info struct {
	Version   int       `json:"version"`
	URIScheme Scheme    `json:"uriScheme"`
	Storage   string    `json:"storage"`
	Cache     string    `json:"cache"`
	Hashing   string    `json:"hashing"`
	LeafTag   string    `json:"leafTag,omitempty"`
	BranchTag string    `json:"branchTag,omitempty"`
	Leaves    int       `json:"leaves"`
	Height    int       `json:"height"`
	Root      HexDigest `json:"root"`
	Signed    bool      `json:"signed"`
}
