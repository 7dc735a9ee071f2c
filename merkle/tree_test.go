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

package merkle

import (
	"encoding/hex"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbva/reserves/crypto/hashing"
)

func digest(s string) hashing.Digest {
	d, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func values(records ...string) [][]byte {
	result := make([][]byte, len(records))
	for i, r := range records {
		result[i] = []byte(r)
	}
	return result
}

func demoValues(n int) [][]byte {
	result := make([][]byte, n)
	for i := 0; i < n; i++ {
		id := i + 1
		result[i] = []byte(fmt.Sprintf("(%d,%d)", id, id*1111))
	}
	return result
}

func TestBuildEmpty(t *testing.T) {
	tree, err := Build(hashing.NewDefaultAlgorithm(), nil)
	require.Equal(t, ErrEmptyRecordSet, err)
	require.Nil(t, tree)
}

func TestBuildThreeRecords(t *testing.T) {
	tree, err := Build(hashing.NewDefaultAlgorithm(), values("(1,10)", "(2,20)", "(3,30)"))
	require.NoError(t, err)

	require.Equal(t, 3, tree.Height())
	require.Equal(t, 3, tree.Leaves())
	require.Equal(t, []hashing.Digest{
		digest("d73a3ea0e86ad7d01aa52f05b284aaae32359bbbfff1d9cb826741642ebb7f01"),
		digest("ae36847478a758b7a10c42e76c9e19b1c2a47580547df96c8a09a73b77bbf9fd"),
		digest("c6c061bb9f9e3af7e583877cba443f57b3914efe52948f17fb95c9c41a038e8b"),
	}, tree.Layer(0))
	require.Equal(t, []hashing.Digest{
		digest("a7c0150c747bd029cf4736cfbfcec28ba82f60b61e5dd8e599b710ef6dd8e1c8"),
		digest("4b8e8d004fe0025a87cae537050c669621d6525037836d4fd366e9589f8b97ec"),
	}, tree.Layer(1))
	require.Equal(t, digest("0d96393e4909a69c64914b37f39e253d0d80fecf7a1106c4aa5d239d0f1a0318"), tree.Root())
	require.Nil(t, tree.Layer(3))
}

func TestBuildKnownRoots(t *testing.T) {
	bitcoin := hashing.NewTaggedAlgorithm(hashing.NewSha256Hasher(),
		[]byte("Bitcoin_Transaction"), []byte("Bitcoin_Transaction"))

	testCases := []struct {
		alg      hashing.Algorithm
		values   [][]byte
		expected string
	}{
		{bitcoin, values("aaa", "bbb", "ccc", "ddd", "eee"), "0x4aa906745f72053498ecc74f79813370a4fe04f85e09421df2d5ef760dfa94b5"},
		{hashing.NewDefaultAlgorithm(), demoValues(8), "0xb1231de33da17c23cebd80c104b88198e0914b0463d0e14db163605b904a7ba3"},
	}

	for i, c := range testCases {
		tree, err := Build(c.alg, c.values)
		require.NoError(t, err)
		require.Equalf(t, c.expected, tree.Root().Hex(), "Wrong root in test case %d", i)
	}
}

func TestBuildSingleRecord(t *testing.T) {
	alg := hashing.NewDefaultAlgorithm()
	tree, err := Build(alg, values("(1,10)"))
	require.NoError(t, err)

	require.Equal(t, 1, tree.Height())
	require.Equal(t, alg.Leaf([]byte("(1,10)")), tree.Root())

	proof, err := tree.Proof(0)
	require.NoError(t, err)
	require.Empty(t, proof)
	require.True(t, Verify(alg, []byte("(1,10)"), proof, tree.Root()))
}

func TestLayerLengths(t *testing.T) {
	alg := hashing.NewDefaultAlgorithm()
	for n := 1; n <= 33; n++ {
		tree, err := Build(alg, demoValues(n))
		require.NoError(t, err)

		expectedHeight := int(math.Ceil(math.Log2(float64(n)))) + 1
		require.Equalf(t, expectedHeight, tree.Height(), "Wrong height for %d leaves", n)

		for h := 1; h < tree.Height(); h++ {
			prev := len(tree.Layer(h - 1))
			require.Equalf(t, (prev+1)/2, len(tree.Layer(h)), "Wrong layer %d length for %d leaves", h, n)
		}
		require.Len(t, tree.Layer(tree.Height()-1), 1)
	}
}

func TestOddTailIsDuplicated(t *testing.T) {
	alg := hashing.NewDefaultAlgorithm()
	tree, err := Build(alg, values("(1,10)", "(2,20)", "(3,30)"))
	require.NoError(t, err)

	leaves := tree.Layer(0)
	require.Equal(t, alg.Node(leaves[2], leaves[2]), tree.Layer(1)[1])
}

// With the xor hasher under RFC 6962 prefixes a leaf is the xor of its
// bytes and a node is 0x01 ^ left ^ right, so every layer is computed by
// hand below.
func TestHandComputedXorTree(t *testing.T) {
	alg := hashing.NewPrefixedAlgorithm(hashing.NewXorHasher())
	require.Equal(t, 1, alg.Size())

	vals := [][]byte{{0x01}, {0x02}, {0x04}, {0x08}, {0x10}}
	tree, err := Build(alg, vals)
	require.NoError(t, err)

	layers := [][]hashing.Digest{
		{{0x01}, {0x02}, {0x04}, {0x08}, {0x10}},
		{{0x02}, {0x0d}, {0x01}}, // 01^01^02, 01^04^08, 01^10^10
		{{0x0e}, {0x01}},         // 01^02^0d, 01^01^01
		{{0x0e}},                 // 01^0e^01
	}
	require.Equal(t, len(layers), tree.Height())
	for h, layer := range layers {
		require.Equalf(t, layer, tree.Layer(h), "Wrong layer %d", h)
	}

	testCases := []struct {
		index int
		proof Proof
	}{
		{0, Proof{{Right, hashing.Digest{0x02}}, {Right, hashing.Digest{0x0d}}, {Right, hashing.Digest{0x01}}}},
		{1, Proof{{Left, hashing.Digest{0x01}}, {Right, hashing.Digest{0x0d}}, {Right, hashing.Digest{0x01}}}},
		{3, Proof{{Left, hashing.Digest{0x04}}, {Left, hashing.Digest{0x02}}, {Right, hashing.Digest{0x01}}}},
		{4, Proof{{Right, hashing.Digest{0x10}}, {Right, hashing.Digest{0x01}}, {Left, hashing.Digest{0x0e}}}},
	}

	for _, c := range testCases {
		proof, err := tree.Proof(c.index)
		require.NoError(t, err)
		require.Equalf(t, c.proof, proof, "Wrong proof for leaf %d", c.index)
		require.True(t, Verify(alg, vals[c.index], proof, tree.Root()))
	}
}

func TestPermutationChangesRoot(t *testing.T) {
	alg := hashing.NewDefaultAlgorithm()
	a, err := Build(alg, values("(1,10)", "(2,20)", "(3,30)"))
	require.NoError(t, err)
	b, err := Build(alg, values("(2,20)", "(1,10)", "(3,30)"))
	require.NoError(t, err)

	require.NotEqual(t, a.Root(), b.Root())
	require.Equal(t, "0x624d0aa6f1a7daa5d4069731dace02c7b2dc3ce2630c5202bf0f7a77a6af24c1", b.Root().Hex())
}

func TestBuildIsDeterministic(t *testing.T) {
	alg := hashing.NewDefaultAlgorithm()
	a, err := Build(alg, demoValues(21))
	require.NoError(t, err)
	b, err := Build(alg, demoValues(21))
	require.NoError(t, err)
	require.Equal(t, a.Root(), b.Root())
}

func TestLayerReturnsCopy(t *testing.T) {
	tree, err := Build(hashing.NewDefaultAlgorithm(), demoValues(4))
	require.NoError(t, err)

	layer := tree.Layer(0)
	layer[0] = nil
	assert.NotNil(t, tree.Layer(0)[0])
}

func TestConcurrentProofs(t *testing.T) {
	alg := hashing.NewDefaultAlgorithm()
	vals := demoValues(100)
	tree, err := Build(alg, vals)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range vals {
				proof, err := tree.Proof(i)
				assert.NoError(t, err)
				assert.True(t, Verify(alg, vals[i], proof, tree.Root()))
			}
		}()
	}
	wg.Wait()
}

func BenchmarkBuild(b *testing.B) {
	alg := hashing.NewDefaultAlgorithm()
	vals := demoValues(1 << 14)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Build(alg, vals)
	}
}
