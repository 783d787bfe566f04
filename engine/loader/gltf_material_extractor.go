package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/material"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	parser gltfParser
}

// gltfMaterialExtractor converts glTF metallic-roughness materials into engine materials.
// Only the scalar factors are read; textures are not imported.
type gltfMaterialExtractor interface {
	// ExtractMaterial builds the material at the given index.
	//
	// Parameters:
	//   - materialIndex: the index of the material
	//
	// Returns:
	//   - material.Material: the PBR material
	//   - error: error if the index is invalid
	ExtractMaterial(materialIndex int) (material.Material, error)

	// ExtractAllMaterials builds every material in document order.
	//
	// Returns:
	//   - []material.Material: one material per glTF material
	//   - error: error if extraction fails
	ExtractAllMaterials() ([]material.Material, error)
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

// newGLTFMaterialExtractor creates a new material extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfMaterialExtractor: the material extractor
func newGLTFMaterialExtractor(parser gltfParser) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{parser: parser}
}

func (e *gltfMaterialExtractorImpl) ExtractMaterial(materialIndex int) (material.Material, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if materialIndex < 0 || materialIndex >= len(doc.Materials) {
		return nil, fmt.Errorf("material index %d out of range", materialIndex)
	}

	mat := &doc.Materials[materialIndex]

	name := common.Coalesce(mat.Name, fmt.Sprintf("material%d", materialIndex))

	// glTF defaults: white base colour, fully metallic, fully rough.
	baseColor := [4]float32{1, 1, 1, 1}
	metallic, roughness := float32(1), float32(1)

	if pbr := mat.PbrMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			baseColor = *pbr.BaseColorFactor
		}
		if pbr.MetallicFactor != nil {
			metallic = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			roughness = *pbr.RoughnessFactor
		}
	}

	return material.NewPBRMaterial(name,
		material.WithAlbedoColor(baseColor),
		material.WithMetallic(metallic),
		material.WithRoughness(roughness),
	), nil
}

func (e *gltfMaterialExtractorImpl) ExtractAllMaterials() ([]material.Material, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	materials := make([]material.Material, len(doc.Materials))
	for i := range doc.Materials {
		m, err := e.ExtractMaterial(i)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		materials[i] = m
	}

	return materials, nil
}
