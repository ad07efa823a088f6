package psyche

import "testing"

func TestRegistryLookup(t *testing.T) {
	r := testRegistry()

	scene, ok := r.Scene(DomainFoundation, 0)
	if !ok {
		t.Fatal("known scene not found")
	}
	if len(scene.Choices) != 3 {
		t.Errorf("choices = %d, want 3", len(scene.Choices))
	}

	if _, ok := r.Scene(DomainFoundation, 99); ok {
		t.Error("unknown node id reported a scene")
	}
	if _, ok := r.Scene(DomainLegacy, 0); ok {
		t.Error("unknown domain reported a scene")
	}
}

func TestRegistryNilSafe(t *testing.T) {
	var r *Registry
	if _, ok := r.Scene(DomainFoundation, 0); ok {
		t.Error("nil registry reported a scene")
	}
}

func TestRegistryCopiesInput(t *testing.T) {
	src := map[Domain]map[int]Scene{
		DomainMoney: {
			8: {
				TitleRef:  "scene.title",
				Intensity: 2,
				Choices:   []SceneChoice{{TitleRef: "choice.keep", Belief: BeliefMoneyIsTool}},
			},
		},
	}
	r := NewRegistry(src)

	// Mutating the source after construction must not leak in: neither
	// replacing a map entry nor writing through the original slice.
	original := src[DomainMoney][8].Choices
	src[DomainMoney][8] = Scene{TitleRef: "scene.overwritten"}
	original[0].Belief = BeliefGoldenCage

	scene, ok := r.Scene(DomainMoney, 8)
	if !ok || scene.TitleRef != "scene.title" {
		t.Errorf("scene = %+v, want the snapshot taken at construction", scene)
	}
	if scene.Choices[0].Belief != BeliefMoneyIsTool {
		t.Errorf("belief = %q, source slice leaked into the registry", scene.Choices[0].Belief)
	}
}
