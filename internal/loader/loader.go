// Package loader decodes glTF binary assets into the viewer's model
// representation.
package loader

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/aa1412666/meshview/internal/assets"
	"github.com/aa1412666/meshview/internal/engine/model"
	"github.com/aa1412666/meshview/internal/engine/texture"
	"github.com/aa1412666/meshview/internal/logger"
	"github.com/aa1412666/meshview/pkg/math"
)

// Load reads a .glb or .gltf asset through the manager and converts it
// to a model. Local files keep their directory as the base for
// relative texture URIs; URLs keep their path prefix.
func Load(mgr *assets.Manager, assetPath string) (*model.Model, error) {
	var (
		doc  *gltf.Document
		base string
	)
	if file, err := mgr.ResolveFile(assetPath); err == nil {
		if doc, err = gltf.Open(file); err != nil {
			return nil, fmt.Errorf("opening %s: %w", assetPath, err)
		}
		base = filepath.Dir(file)
	} else {
		data, err := mgr.Load(assetPath)
		if err != nil {
			return nil, err
		}
		doc = new(gltf.Document)
		if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", assetPath, err)
		}
		base = urlDir(assetPath)
	}

	m, err := build(doc, mgr, base)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", assetPath, err)
	}
	m.Name = filepath.Base(assetPath)

	logger.Info("model loaded",
		zap.String("path", assetPath),
		zap.Int("nodes", len(m.Nodes)),
		zap.Int("materials", len(m.Materials)),
		zap.Int("triangles", m.TriangleCount()))
	return m, nil
}

// ApplyViewerFlags stamps the viewer's shadow and environment settings
// onto a freshly loaded model and marks its materials for upload.
func ApplyViewerFlags(m *model.Model, castShadow, receiveShadow bool, envIntensity float32) {
	m.SetShadowFlags(castShadow, receiveShadow)
	for i := range m.Materials {
		m.Materials[i].EnvIntensity = envIntensity
		m.Materials[i].Dirty = true
	}
}

func build(doc *gltf.Document, mgr *assets.Manager, base string) (*model.Model, error) {
	m := &model.Model{
		Nodes: make([]model.Node, 0, len(doc.Nodes)),
		Roots: rootNodes(doc),
	}
	for _, n := range doc.Nodes {
		m.Nodes = append(m.Nodes, buildNode(n))
	}
	for _, mesh := range doc.Meshes {
		built, err := buildMesh(doc, mesh)
		if err != nil {
			return nil, err
		}
		m.Meshes = append(m.Meshes, built)
	}
	for _, mat := range doc.Materials {
		m.Materials = append(m.Materials, buildMaterial(doc, mgr, base, mat))
	}
	if m.TriangleCount() == 0 {
		return nil, fmt.Errorf("no triangles")
	}
	return m, nil
}

// rootNodes picks the default scene's nodes, or every parentless node
// when the document declares no scenes.
func rootNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil {
			idx = int(*doc.Scene)
		}
		if idx >= 0 && idx < len(doc.Scenes) {
			roots := make([]int, 0, len(doc.Scenes[idx].Nodes))
			for _, n := range doc.Scenes[idx].Nodes {
				roots = append(roots, int(n))
			}
			return roots
		}
	}

	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if int(c) >= 0 && int(c) < len(child) {
				child[int(c)] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func buildNode(src *gltf.Node) model.Node {
	n := model.Node{
		Name:          src.Name,
		Rotation:      math.QuatIdentity(),
		Scale:         math.Vec3{X: 1, Y: 1, Z: 1},
		Mesh:          model.NoMesh,
		CastShadow:    true,
		ReceiveShadow: true,
	}
	for _, c := range src.Children {
		n.Children = append(n.Children, int(c))
	}
	if src.Mesh != nil {
		n.Mesh = int(*src.Mesh)
	}

	if mat, ok := matrixOf(src); ok {
		n.Matrix = &mat
		return n
	}
	n.Translation = math.Vec3{
		X: float32(src.Translation[0]),
		Y: float32(src.Translation[1]),
		Z: float32(src.Translation[2]),
	}
	if q := (math.Quat{
		X: float32(src.Rotation[0]),
		Y: float32(src.Rotation[1]),
		Z: float32(src.Rotation[2]),
		W: float32(src.Rotation[3]),
	}); q != (math.Quat{}) {
		n.Rotation = q
	}
	if s := (math.Vec3{
		X: float32(src.Scale[0]),
		Y: float32(src.Scale[1]),
		Z: float32(src.Scale[2]),
	}); s != (math.Vec3{}) {
		n.Scale = s
	}
	return n
}

// matrixOf returns the node's raw matrix when it carries a meaningful
// one. Zero and identity matrices mean the TRS fields apply instead.
func matrixOf(src *gltf.Node) (math.Mat4, bool) {
	var m math.Mat4
	zero := true
	for i, v := range src.Matrix {
		m[i] = float32(v)
		if m[i] != 0 {
			zero = false
		}
	}
	if zero || m == math.Identity() {
		return math.Mat4{}, false
	}
	return m, true
}

func buildMesh(doc *gltf.Document, src *gltf.Mesh) (model.Mesh, error) {
	out := model.Mesh{Name: src.Name}
	for _, prim := range src.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		p, err := buildPrimitive(doc, prim)
		if err != nil {
			return out, fmt.Errorf("mesh %s: %w", src.Name, err)
		}
		if p != nil {
			out.Primitives = append(out.Primitives, *p)
		}
	}
	return out, nil
}

func buildPrimitive(doc *gltf.Document, src *gltf.Primitive) (*model.Primitive, error) {
	posIdx, ok := src.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}
	if len(positions) == 0 {
		return nil, nil
	}

	p := &model.Primitive{
		Positions: make([]float32, 0, len(positions)*3),
		Material:  model.NoMaterial,
	}
	for _, v := range positions {
		p.Positions = append(p.Positions, v[0], v[1], v[2])
	}

	if idx, ok := src.Attributes[gltf.NORMAL]; ok {
		if normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil); err == nil && len(normals) == len(positions) {
			p.Normals = make([]float32, 0, len(normals)*3)
			for _, v := range normals {
				p.Normals = append(p.Normals, v[0], v[1], v[2])
			}
		}
	}
	if idx, ok := src.Attributes[gltf.TEXCOORD_0]; ok {
		if coords, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err == nil && len(coords) == len(positions) {
			p.TexCoords = make([]float32, 0, len(coords)*2)
			for _, v := range coords {
				p.TexCoords = append(p.TexCoords, v[0], v[1])
			}
		}
	}
	if src.Indices != nil {
		if p.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*src.Indices], nil); err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
	}
	if src.Material != nil {
		p.Material = int(*src.Material)
	}
	if len(p.Normals) == 0 {
		p.ComputeNormals()
	}
	return p, nil
}

func buildMaterial(doc *gltf.Document, mgr *assets.Manager, base string, src *gltf.Material) model.Material {
	out := model.Material{
		Name:         src.Name,
		BaseColor:    [4]float32{1, 1, 1, 1},
		EnvIntensity: 1,
		DoubleSided:  src.DoubleSided,
		Dirty:        true,
	}
	pbr := src.PBRMetallicRoughness
	if pbr == nil {
		return out
	}
	if pbr.BaseColorFactor != nil {
		for i, v := range pbr.BaseColorFactor {
			out.BaseColor[i] = float32(v)
		}
	}
	if pbr.BaseColorTexture != nil {
		img, err := textureImage(doc, mgr, base, int(pbr.BaseColorTexture.Index))
		if err != nil {
			logger.Warn("failed to load material texture",
				zap.String("material", src.Name),
				zap.Error(err))
		} else {
			out.Image = img
		}
	}
	return out
}

func textureImage(doc *gltf.Document, mgr *assets.Manager, base string, idx int) (*image.NRGBA, error) {
	if idx < 0 || idx >= len(doc.Textures) {
		return nil, fmt.Errorf("texture %d out of range", idx)
	}
	tex := doc.Textures[idx]
	if tex.Source == nil {
		return nil, fmt.Errorf("texture %d has no image", idx)
	}
	src := int(*tex.Source)
	if src < 0 || src >= len(doc.Images) {
		return nil, fmt.Errorf("image %d out of range", src)
	}

	data, err := imageData(doc, mgr, base, doc.Images[src])
	if err != nil {
		return nil, err
	}
	return texture.Decode(data)
}

func imageData(doc *gltf.Document, mgr *assets.Manager, base string, img *gltf.Image) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		bvIdx := int(*img.BufferView)
		if bvIdx < 0 || bvIdx >= len(doc.BufferViews) {
			return nil, fmt.Errorf("image buffer view %d out of range", bvIdx)
		}
		bv := doc.BufferViews[bvIdx]
		bufIdx := int(bv.Buffer)
		if bufIdx < 0 || bufIdx >= len(doc.Buffers) {
			return nil, fmt.Errorf("image buffer %d out of range", bufIdx)
		}
		buf := doc.Buffers[bufIdx].Data
		off, n := int(bv.ByteOffset), int(bv.ByteLength)
		if off < 0 || n < 0 || off+n > len(buf) {
			return nil, fmt.Errorf("image data out of range")
		}
		return buf[off : off+n], nil

	case strings.HasPrefix(img.URI, "data:"):
		return decodeDataURI(img.URI)

	case img.URI != "":
		return mgr.Load(joinBase(base, img.URI))
	}
	return nil, fmt.Errorf("image %s has no data", img.Name)
}

func decodeDataURI(uri string) ([]byte, error) {
	const marker = ";base64,"
	i := strings.Index(uri, marker)
	if i < 0 {
		return nil, fmt.Errorf("unsupported data URI")
	}
	data, err := base64.StdEncoding.DecodeString(uri[i+len(marker):])
	if err != nil {
		return nil, fmt.Errorf("decoding data URI: %w", err)
	}
	return data, nil
}

// urlDir strips the last path segment of a URL.
func urlDir(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i]
	}
	return ""
}

func joinBase(base, uri string) string {
	if isRemote(uri) {
		return uri
	}
	if unescaped, err := url.PathUnescape(uri); err == nil {
		uri = unescaped
	}
	switch {
	case base == "":
		return uri
	case isRemote(base):
		return base + "/" + uri
	}
	return filepath.Join(base, uri)
}

func isRemote(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}
