package resolver

import (
	"strings"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
)

type sideNames struct {
	word    string // Left / Right
	vroid   string // J_Bip_L_
	blender string // .L
}

var sides = [2]sideNames{
	{word: "Left", vroid: "J_Bip_L_", blender: ".L"},
	{word: "Right", vroid: "J_Bip_R_", blender: ".R"},
}

var fingerMixamo = map[string]string{
	"Thumb": "Thumb", "Index": "Index", "Middle": "Middle", "Ring": "Ring", "Little": "Pinky",
}

var jointNumbers = map[string]string{
	"Proximal": "1", "Intermediate": "2", "Distal": "3",
}

// defaultNames lists the bone names exported by common rigging tools for each role.
func defaultNames() map[domain.BoneRole][]string {
	names := make(map[domain.BoneRole][]string)
	add := func(role string, aliases ...string) {
		r, err := domain.ParseBoneRole(role)
		if err != nil {
			panic(err)
		}
		names[r] = append(names[r], aliases...)
	}

	add("Hips", "Hips", "Hip", "Pelvis", "J_Bip_C_Hips")
	add("Spine", "Spine", "J_Bip_C_Spine")
	add("Chest", "Chest", "Spine1", "J_Bip_C_Chest")
	add("UpperChest", "UpperChest", "Spine2", "J_Bip_C_UpperChest")
	add("Neck", "Neck", "J_Bip_C_Neck")
	add("Head", "Head", "J_Bip_C_Head")

	limbs := []struct {
		role    string
		mixamo  string
		vroid   string
		blender []string
	}{
		{"Shoulder", "Shoulder", "Shoulder", []string{"Shoulder"}},
		{"UpperArm", "Arm", "UpperArm", []string{"UpperArm", "Upper_Arm"}},
		{"LowerArm", "ForeArm", "LowerArm", []string{"LowerArm", "Lower_Arm", "Forearm"}},
		{"Hand", "Hand", "Hand", []string{"Hand"}},
		{"UpperLeg", "UpLeg", "UpperLeg", []string{"UpperLeg", "Upper_Leg", "Thigh"}},
		{"LowerLeg", "Leg", "LowerLeg", []string{"LowerLeg", "Lower_Leg", "Knee"}},
		{"Foot", "Foot", "Foot", []string{"Foot"}},
		{"Toes", "ToeBase", "ToeBase", []string{"Toes", "Toe"}},
		{"Eye", "Eye", "", []string{"Eye"}},
	}
	for _, s := range sides {
		for _, l := range limbs {
			role := s.word + l.role
			aliases := []string{role, s.word + l.mixamo}
			if l.vroid != "" {
				aliases = append(aliases, s.vroid+l.vroid)
			} else {
				aliases = append(aliases, strings.Replace(s.vroid, "J_Bip", "J_Adj", 1)+"FaceEye")
			}
			for _, b := range l.blender {
				aliases = append(aliases, b+s.blender)
			}
			add(role, aliases...)
		}
		for finger, mixamo := range fingerMixamo {
			for joint, num := range jointNumbers {
				role := s.word + finger + joint
				add(role,
					role,
					s.word+"Hand"+mixamo+num,
					s.vroid+finger+num,
					finger+"_"+joint+s.blender,
					finger+num+s.blender,
				)
			}
		}
	}
	return names
}
