package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/logger"
)

// ErrNotExportable is returned by Export for assets not backed by a document.
var ErrNotExportable = errors.New("model: asset has no source document")

// Export writes the asset as a binary glTF with the current material colors.
// Geometry, nodes and animations are written as loaded. Every source buffer
// is embedded in the binary chunk, so the output has no external files.
func (a *Asset) Export(path string) error {
	if a.doc == nil {
		return ErrNotExportable
	}
	doc := a.exportDocument()

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	logger.Info("model exported",
		zap.String("path", path),
		zap.Int("materials", len(doc.Materials)),
		zap.Int("source_buffers", len(a.doc.Buffers)),
	)
	return nil
}

// exportDocument returns a copy of the source document with the current
// colors and a single merged buffer. The loaded document is not modified.
func (a *Asset) exportDocument() *gltf.Document {
	doc := *a.doc

	doc.Materials = make([]*gltf.Material, len(a.doc.Materials))
	for i, src := range a.doc.Materials {
		m := *src
		if src.PBRMetallicRoughness != nil {
			pbr := *src.PBRMetallicRoughness
			m.PBRMetallicRoughness = &pbr
		}
		doc.Materials[i] = &m
	}
	for _, m := range a.Materials {
		if m.Index < 0 || m.Index >= len(doc.Materials) {
			continue
		}
		dst := doc.Materials[m.Index]
		if dst.PBRMetallicRoughness == nil {
			dst.PBRMetallicRoughness = &gltf.PBRMetallicRoughness{}
		}
		setFactor(&dst.PBRMetallicRoughness.BaseColorFactor, m.Color)
	}

	doc.Buffers, doc.BufferViews = mergeBuffers(a.doc.Buffers, a.doc.BufferViews)
	return &doc
}

// mergeBuffers concatenates buffers into one URI-less buffer, each source
// starting on a 4-byte boundary, and rebases the views onto it.
func mergeBuffers(buffers []*gltf.Buffer, views []*gltf.BufferView) ([]*gltf.Buffer, []*gltf.BufferView) {
	offsets := make([]uint32, len(buffers))
	var data []byte
	for i, b := range buffers {
		for len(data)%4 != 0 {
			data = append(data, 0)
		}
		offsets[i] = uint32(len(data))
		data = append(data, b.Data...)
	}

	rebased := make([]*gltf.BufferView, len(views))
	for i, v := range views {
		c := *v
		if int(v.Buffer) < len(offsets) {
			c.ByteOffset += offsets[v.Buffer]
		}
		c.Buffer = 0
		rebased[i] = &c
	}

	if len(data) == 0 {
		return nil, rebased
	}
	return []*gltf.Buffer{{ByteLength: uint32(len(data)), Data: data}}, rebased
}
