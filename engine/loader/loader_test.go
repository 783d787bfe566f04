package loader

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleBuffer holds three VEC3 positions followed by three uint16 indices, padded to 4 bytes.
func triangleBuffer(t *testing.T) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, binary.Write(buf, binary.LittleEndian, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, []uint16{0, 1, 2}))
	buf.Write([]byte{0, 0})
	return buf.Bytes()
}

// triangleDoc describes a body node with a wing child, both instancing one red triangle mesh.
func triangleDoc(bufferURI string) map[string]any {
	buffer := map[string]any{"byteLength": 44}
	if bufferURI != "" {
		buffer["uri"] = bufferURI
	}
	return map[string]any{
		"asset":  map[string]any{"version": "2.0"},
		"scene":  0,
		"scenes": []any{map[string]any{"nodes": []int{0}}},
		"nodes": []any{
			map[string]any{"name": "body", "mesh": 0, "translation": []float32{0, 1, 0}, "children": []int{1}},
			map[string]any{"name": "wing", "mesh": 0, "matrix": mgl32.Translate3D(2, 0, 0)},
		},
		"meshes": []any{map[string]any{
			"name":       "tri",
			"primitives": []any{map[string]any{"attributes": map[string]int{"POSITION": 0}, "indices": 1, "material": 0}},
		}},
		"materials": []any{map[string]any{
			"name":                 "paint",
			"pbrMetallicRoughness": map[string]any{"baseColorFactor": []float32{1, 0, 0, 1}, "metallicFactor": 0.25},
		}},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": gltfComponentTypeFloat, "count": 3, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": gltfComponentTypeUnsignedShort, "count": 3, "type": "SCALAR"},
		},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			map[string]any{"buffer": 0, "byteOffset": 36, "byteLength": 6},
		},
		"buffers": []any{buffer},
	}
}

func encodeGLB(t *testing.T, doc map[string]any, bin []byte) []byte {
	t.Helper()
	jsonData, err := json.Marshal(doc)
	require.NoError(t, err)
	for len(jsonData)%4 != 0 {
		jsonData = append(jsonData, ' ')
	}

	out := new(bytes.Buffer)
	total := 12 + 8 + len(jsonData) + 8 + len(bin)
	require.NoError(t, binary.Write(out, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: uint32(total)}))
	require.NoError(t, binary.Write(out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(jsonData)), ChunkType: gltfGLBChunkJSON}))
	out.Write(jsonData)
	require.NoError(t, binary.Write(out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(bin)), ChunkType: gltfGLBChunkBIN}))
	out.Write(bin)
	return out.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func newTestLoader(t *testing.T, options ...LoaderBuilderOption) Loader {
	t.Helper()
	l := NewLoader(BackendTypeGLTF, options...)
	t.Cleanup(l.Close)
	return l
}

func TestImportGLBBuildsHierarchy(t *testing.T) {
	path := writeFile(t, t.TempDir(), "plane.glb", encodeGLB(t, triangleDoc(""), triangleBuffer(t)))

	res, err := newTestLoader(t).Import(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, res.Meshes, 3)

	root, body, wing := res.Meshes[0], res.Meshes[1], res.Meshes[2]
	assert.Equal(t, path, res.URL)
	assert.Equal(t, root, res.Root())
	assert.Equal(t, RootMeshName, root.Name())
	assert.Equal(t, "body", body.Name())
	assert.Equal(t, "wing", wing.Name())
	assert.Nil(t, root.Parent())
	assert.Equal(t, root, body.Parent())
	assert.Equal(t, body, wing.Parent())

	assert.False(t, root.HasGeometry())
	require.True(t, body.HasGeometry())
	assert.Len(t, body.Vertices(), 3)
	assert.Equal(t, []uint32{0, 1, 2}, body.Indices())

	// No NORMAL attribute: normals come from the counter-clockwise winding.
	for _, v := range body.Vertices() {
		assert.InDelta(t, 1, v.Normal[2], 1e-5)
	}

	require.NotNil(t, body.Material())
	assert.Equal(t, "paint", body.Material().Name())
	assert.Equal(t, [4]float32{1, 0, 0, 1}, body.Material().AlbedoColor())
	assert.InDelta(t, 0.25, body.Material().Metallic(), 1e-6)

	assert.True(t, wing.WorldMatrix().Col(3).Vec3().ApproxEqual(mgl32.Vec3{2, 1, 0}))
}

// withTexCoords appends a TEXCOORD_0 accessor to the triangle document and its data to bin.
func withTexCoords(t *testing.T, doc map[string]any, bin []byte, componentType int, normalized bool, data any) []byte {
	t.Helper()
	extra := new(bytes.Buffer)
	require.NoError(t, binary.Write(extra, binary.LittleEndian, data))
	for extra.Len()%4 != 0 {
		extra.WriteByte(0)
	}

	doc["accessors"] = append(doc["accessors"].([]any),
		map[string]any{"bufferView": 2, "componentType": componentType, "normalized": normalized, "count": 3, "type": "VEC2"})
	doc["bufferViews"] = append(doc["bufferViews"].([]any),
		map[string]any{"buffer": 0, "byteOffset": len(bin), "byteLength": extra.Len()})
	doc["buffers"] = []any{map[string]any{"byteLength": len(bin) + extra.Len()}}
	prim := doc["meshes"].([]any)[0].(map[string]any)["primitives"].([]any)[0].(map[string]any)
	prim["attributes"] = map[string]int{"POSITION": 0, "TEXCOORD_0": 2}
	return append(bin, extra.Bytes()...)
}

func TestImportReadsTexCoords(t *testing.T) {
	t.Run("float", func(t *testing.T) {
		doc := triangleDoc("")
		bin := withTexCoords(t, doc, triangleBuffer(t), gltfComponentTypeFloat, false, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
		path := writeFile(t, t.TempDir(), "uv.glb", encodeGLB(t, doc, bin))

		res, err := newTestLoader(t).Import(context.Background(), path)
		require.NoError(t, err)
		verts := res.Meshes[1].Vertices()
		require.Len(t, verts, 3)
		assert.Equal(t, [2]float32{1, 0}, verts[1].UV)
		assert.Equal(t, [2]float32{0, 1}, verts[2].UV)
	})

	t.Run("normalized unsigned byte", func(t *testing.T) {
		doc := triangleDoc("")
		bin := withTexCoords(t, doc, triangleBuffer(t), gltfComponentTypeUnsignedByte, true, []uint8{0, 0, 255, 0, 0, 255})
		path := writeFile(t, t.TempDir(), "uv8.glb", encodeGLB(t, doc, bin))

		res, err := newTestLoader(t).Import(context.Background(), path)
		require.NoError(t, err)
		verts := res.Meshes[1].Vertices()
		assert.Equal(t, [2]float32{1, 0}, verts[1].UV)
		assert.Equal(t, [2]float32{0, 1}, verts[2].UV)
	})
}

func TestImportGLTFWithExternalBuffer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tri data.bin", triangleBuffer(t))
	doc, err := json.Marshal(triangleDoc("tri%20data.bin"))
	require.NoError(t, err)
	path := writeFile(t, dir, "plane.gltf", doc)

	res, err := newTestLoader(t).Import(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, res.Meshes, 3)
}

func TestImportHTTPWithDataURIAndRelativeBuffer(t *testing.T) {
	bin := triangleBuffer(t)
	inline, err := json.Marshal(triangleDoc("data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bin)))
	require.NoError(t, err)
	external, err := json.Marshal(triangleDoc("tri.bin"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/models/inline.gltf", func(w http.ResponseWriter, r *http.Request) { w.Write(inline) })
	mux.HandleFunc("/models/external.gltf", func(w http.ResponseWriter, r *http.Request) { w.Write(external) })
	mux.HandleFunc("/models/tri.bin", func(w http.ResponseWriter, r *http.Request) { w.Write(bin) })
	srv := httptest.NewServer(mux)
	defer srv.Close()

	l := newTestLoader(t, WithHTTPClient(srv.Client()))

	res, err := l.Import(context.Background(), srv.URL+"/models/inline.gltf")
	require.NoError(t, err)
	assert.Len(t, res.Meshes, 3)

	res, err = l.Import(context.Background(), srv.URL+"/models/external.gltf")
	require.NoError(t, err)
	assert.Len(t, res.Meshes, 3)
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()

	noMeshes, err := json.Marshal(map[string]any{"asset": map[string]any{"version": "2.0"}, "nodes": []any{map[string]any{"name": "empty"}}})
	require.NoError(t, err)
	wrongVersion, err := json.Marshal(map[string]any{"asset": map[string]any{"version": "1.0"}})
	require.NoError(t, err)

	outOfRange := triangleDoc("")
	outOfRange["accessors"].([]any)[0].(map[string]any)["count"] = 300

	badGLB := encodeGLB(t, triangleDoc(""), triangleBuffer(t))
	binary.LittleEndian.PutUint32(badGLB[4:], 1)

	l := newTestLoader(t)

	t.Run("missing file", func(t *testing.T) {
		_, err := l.Import(context.Background(), filepath.Join(dir, "absent.glb"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("no meshes", func(t *testing.T) {
		_, err := l.Import(context.Background(), writeFile(t, dir, "empty.gltf", noMeshes))
		assert.ErrorIs(t, err, ErrNoMeshes)
	})
	t.Run("wrong version", func(t *testing.T) {
		_, err := l.Import(context.Background(), writeFile(t, dir, "old.gltf", wrongVersion))
		assert.ErrorIs(t, err, errInvalidGLTFVersion)
	})
	t.Run("garbage", func(t *testing.T) {
		_, err := l.Import(context.Background(), writeFile(t, dir, "junk.gltf", []byte("not a model")))
		assert.Error(t, err)
	})
	t.Run("bad glb version", func(t *testing.T) {
		_, err := l.Import(context.Background(), writeFile(t, dir, "bad.glb", badGLB))
		assert.ErrorIs(t, err, errInvalidGLBVersion)
	})
	t.Run("accessor out of range", func(t *testing.T) {
		_, err := l.Import(context.Background(), writeFile(t, dir, "oor.glb", encodeGLB(t, outOfRange, triangleBuffer(t))))
		assert.ErrorIs(t, err, errAccessorOutOfRange)
	})
}

func TestImportHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newTestLoader(t).Import(context.Background(), srv.URL+"/missing.glb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestOfflineSupportCachesBytes(t *testing.T) {
	glb := encodeGLB(t, triangleDoc(""), triangleBuffer(t))
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(glb)
	}))
	defer srv.Close()
	location := srv.URL + "/plane.glb"

	online := newTestLoader(t)
	for range 2 {
		_, err := online.Import(context.Background(), location)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), hits.Load())
	assert.False(t, online.Cached(location))

	hits.Store(0)
	offline := newTestLoader(t, WithOfflineSupport(true), WithWorkers(1))
	for range 2 {
		_, err := offline.Import(context.Background(), location)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())
	assert.True(t, offline.Cached(location))
}

func TestImportCancelledAndClosed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "plane.glb", encodeGLB(t, triangleDoc(""), triangleBuffer(t)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := NewLoader(BackendTypeGLTF)
	_, err := l.Import(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)

	l.Close()
	l.Close()
	_, err = l.Import(context.Background(), path)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestUnsupportedBackend(t *testing.T) {
	l := NewLoader(LoaderBackendType(99))
	defer l.Close()

	_, err := l.Import(context.Background(), "x.glb")
	assert.ErrorIs(t, err, ErrUnsupportedBackend)
}

func TestResolveRelative(t *testing.T) {
	ref, err := resolveRelative("https://cdn.example.com/models/plane.gltf", "buffers/plane.bin")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/models/buffers/plane.bin", ref)

	ref, err = resolveRelative(filepath.Join("assets", "models", "plane.gltf"), "plane%20data.bin")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("assets", "models", "plane data.bin"), ref)
}
