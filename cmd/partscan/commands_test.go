package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/showroom/internal/model"
)

// writeModel saves a body, a door and a window, each with its own material,
// plus one door clip.
func writeModel(t *testing.T) string {
	t.Helper()

	doc := gltf.NewDocument()
	names := []string{"Body_Main", "Door_Front_L", "Window_Rear"}
	for i, name := range names {
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name: name + "_Mat",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float32{1, 1, 1, 1},
			},
		})
		pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: name,
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]uint32{gltf.POSITION: uint32(pos)},
				Material:   gltf.Index(uint32(i)),
			}},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(uint32(i))})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(i))
	}

	times := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 0.5})
	values := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{0, 0, 0}, {1, 0, 0}})
	doc.Animations = []*gltf.Animation{{
		Name:     "DoorOpen",
		Samplers: []*gltf.AnimationSampler{{Input: uint32(times), Output: uint32(values)}},
		Channels: []*gltf.Channel{{
			Sampler: gltf.Index(0),
			Target:  gltf.ChannelTarget{Node: gltf.Index(1), Path: gltf.TRSTranslation},
		}},
	}}

	path := filepath.Join(t.TempDir(), "car.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPartsCommand(t *testing.T) {
	out, err := run(t, "parts", writeModel(t))
	require.NoError(t, err)

	assert.Contains(t, out, "PART")
	assert.Regexp(t, `Body\s+Body\s+1\s+1\s+#ffffff\s+yes`, out)
	assert.Regexp(t, `Front_Doors\s+Front_Doors\s+1\s+1\s+#ffffff\s+yes`, out)
	assert.Regexp(t, `Windows\s+Windows\s+1\s+1\s+#ffffff\s+no`, out)
}

func TestClipsCommand(t *testing.T) {
	out, err := run(t, "clips", writeModel(t))
	require.NoError(t, err)
	assert.Regexp(t, `DoorOpen\s+0\.500s\s+yes`, out)
}

func TestColorsCommandWithPreset(t *testing.T) {
	out, err := run(t, "colors", writeModel(t), "--preset", "Sport")
	require.NoError(t, err)

	var colors map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &colors))
	assert.Equal(t, "#ff0000", colors["Body"])
	assert.Equal(t, "#ffffff", colors["Windows"])
}

func TestColorsCommandUnknownPreset(t *testing.T) {
	_, err := run(t, "colors", writeModel(t), "--preset", "Nope")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	src := writeModel(t)
	dst := filepath.Join(t.TempDir(), "out", "custom.glb")

	out, err := run(t, "export", src, dst, "--color", "Body=#00ff00", "--color", "Windows = #000000")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+dst)

	a, err := model.Load(dst)
	require.NoError(t, err)
	colors := map[string]string{}
	for _, m := range a.Materials {
		colors[m.Name] = m.ColorHex()
	}
	assert.Equal(t, "#00ff00", colors["Body_Main_Mat"])
	assert.Equal(t, "#000000", colors["Window_Rear_Mat"])
	assert.Equal(t, "#ffffff", colors["Door_Front_L_Mat"])
}

func TestExportCommandRejectsUnknownPart(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "custom.glb")
	_, err := run(t, "export", writeModel(t), dst, "--color", "Spoiler=#00ff00")
	assert.ErrorContains(t, err, "Spoiler")
	assert.NoFileExists(t, dst)
}

func TestParseColors(t *testing.T) {
	got, err := parseColors([]string{"Body=#fff", " Hood = #000000 "})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Body", got[0].Part)
	assert.Equal(t, "#fff", got[0].Color)
	assert.Equal(t, "Hood", got[1].Part)

	for _, bad := range []string{"Body", "=#fff", "Body="} {
		_, err := parseColors([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestMissingModel(t *testing.T) {
	_, err := run(t, "parts", filepath.Join(t.TempDir(), "none.glb"))
	assert.Error(t, err)
}
