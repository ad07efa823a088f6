package psyche

// SceneChoice is one option presented on a node. TitleRef points into the
// host's copy/localization layer, which is out of scope here.
type SceneChoice struct {
	TitleRef string
	Belief   BeliefTag
	// Next optionally overrides linear progression with an explicit
	// follow-up node.
	Next *int
}

// Scene is the static content for one node.
type Scene struct {
	TitleRef  string
	BodyRef   string
	Intensity int
	Choices   []SceneChoice
}

// Registry is the read-only scene/content mapping: domain to node id to
// scene. It is supplied entirely by configuration and never computed or
// mutated after construction.
type Registry struct {
	scenes map[Domain]map[int]Scene
}

// NewRegistry copies the supplied mapping so later mutation of the input
// cannot leak into the registry.
func NewRegistry(scenes map[Domain]map[int]Scene) *Registry {
	copied := make(map[Domain]map[int]Scene, len(scenes))
	for domain, nodes := range scenes {
		inner := make(map[int]Scene, len(nodes))
		for id, scene := range nodes {
			scene.Choices = append([]SceneChoice(nil), scene.Choices...)
			inner[id] = scene
		}
		copied[domain] = inner
	}
	return &Registry{scenes: copied}
}

// Scene looks up the content for a node within a domain.
func (r *Registry) Scene(domain Domain, nodeID int) (Scene, bool) {
	if r == nil {
		return Scene{}, false
	}
	nodes, ok := r.scenes[domain]
	if !ok {
		return Scene{}, false
	}
	scene, ok := nodes[nodeID]
	return scene, ok
}
