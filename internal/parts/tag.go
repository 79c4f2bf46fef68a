// Package parts groups the meshes of a loaded model into user-addressable
// parts and recolors them.
package parts

import "strings"

// Tag is the category a mesh is assigned to when the model is scanned.
type Tag int

const (
	TagBody Tag = iota
	TagHood
	TagFrontDoors
	TagRearDoors
	TagDoors
	TagWheels
	TagFrontBumper
	TagRearBumper
	TagBumper
	TagRoof
	TagWindows
	TagMirrors
	TagLights
	TagGrille
	TagInterior
	TagCustom // named after the node itself
)

var tagNames = [...]string{
	TagBody:        "Body",
	TagHood:        "Hood",
	TagFrontDoors:  "Front_Doors",
	TagRearDoors:   "Rear_Doors",
	TagDoors:       "Doors",
	TagWheels:      "Wheels",
	TagFrontBumper: "Front_Bumper",
	TagRearBumper:  "Rear_Bumper",
	TagBumper:      "Bumper",
	TagRoof:        "Roof",
	TagWindows:     "Windows",
	TagMirrors:     "Mirrors",
	TagLights:      "Lights",
	TagGrille:      "Grille",
	TagInterior:    "Interior",
	TagCustom:      "Custom",
}

// String returns the bucket name of the tag. Custom parts are named by
// their node, so the string is only a label for logs.
func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return "Tag(?)"
	}
	return tagNames[t]
}

// UnknownPart names a custom part whose node has no name.
const UnknownPart = "Unknown_Part"

// rule assigns tag when the lowercase name contains any keyword. When
// variants are present the first matching variant refines the tag.
type rule struct {
	keywords []string
	tag      Tag
	variants []rule
}

// rules are tried in order and the first match wins.
var rules = []rule{
	{keywords: []string{"body", "chassis", "frame"}, tag: TagBody},
	{keywords: []string{"hood", "bonnet"}, tag: TagHood},
	{keywords: []string{"door"}, tag: TagDoors, variants: []rule{
		{keywords: []string{"front"}, tag: TagFrontDoors},
		{keywords: []string{"rear", "back"}, tag: TagRearDoors},
	}},
	{keywords: []string{"wheel", "tire", "rim"}, tag: TagWheels},
	{keywords: []string{"bumper"}, tag: TagBumper, variants: []rule{
		{keywords: []string{"front"}, tag: TagFrontBumper},
		{keywords: []string{"rear", "back"}, tag: TagRearBumper},
	}},
	{keywords: []string{"roof", "top"}, tag: TagRoof},
	{keywords: []string{"window", "glass", "windshield"}, tag: TagWindows},
	{keywords: []string{"mirror"}, tag: TagMirrors},
	{keywords: []string{"light", "lamp", "headlight"}, tag: TagLights},
	{keywords: []string{"grill", "grille"}, tag: TagGrille},
	{keywords: []string{"interior", "seat", "dashboard"}, tag: TagInterior},
}

func (r rule) matches(lower string) bool {
	for _, k := range r.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Classify returns the tag and bucket name for a mesh node name.
func Classify(name string) (Tag, string) {
	lower := strings.ToLower(name)
	for _, r := range rules {
		if !r.matches(lower) {
			continue
		}
		tag := r.tag
		for _, v := range r.variants {
			if v.matches(lower) {
				tag = v.tag
				break
			}
		}
		return tag, tag.String()
	}
	if name == "" {
		return TagCustom, UnknownPart
	}
	return TagCustom, name
}
