package ecs

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/locomotion"
)

func TestSparseWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
			}
		})
	}
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func TestSparseWorldComponentsAndQueries(t *testing.T) {
	t.Run("component_table", func(t *testing.T) {
		w := NewWorld()

		transforms := component.TransformComponent.Kind()
		players := component.PlayerTagComponent.Kind()
		locos := component.LocomotionComponent.Kind()

		e1 := CreateEntity(w)
		e2 := CreateEntity(w)

		tests := []struct {
			name     string
			setup    func() error
			check    func(t *testing.T)
			teardown func() bool
		}{
			{
				name: "add_transform_to_e1",
				setup: func() error {
					return Add(w, e1, transforms, &component.Transform{Position: mgl64.Vec3{1, 2, 3}, Yaw: 90})
				},
				check: func(t *testing.T) {
					tr, ok := Get(w, e1, transforms)
					if !ok || tr.Position != (mgl64.Vec3{1, 2, 3}) || tr.Yaw != 90 {
						t.Fatalf("expected transform at [1 2 3] yaw 90, got %+v ok=%v", tr, ok)
					}
				},
				teardown: func() bool { return Remove(w, e1, transforms) },
			},
			{
				name: "tag_e1_and_e2",
				setup: func() error {
					if err := Add(w, e1, players, &component.PlayerTag{Name: "a"}); err != nil {
						return err
					}
					return Add(w, e2, players, &component.PlayerTag{Name: "b"})
				},
				check: func(t *testing.T) {
					if !Has(w, e1, players) || !Has(w, e2, players) {
						t.Fatalf("expected both entities to carry a player tag")
					}
				},
				teardown: func() bool { return Remove(w, e1, players) },
			},
			{
				name: "locomotion_state_is_shared",
				setup: func() error {
					return Add(w, e1, locos, &component.Locomotion{Phase: locomotion.Falling, Airborne: 0.5})
				},
				check: func(t *testing.T) {
					loco, ok := Get(w, e1, locos)
					if !ok {
						t.Fatalf("expected locomotion present")
					}
					loco.Grounded = true
					again, _ := Get(w, e1, locos)
					if !again.Grounded || again.Phase != locomotion.Falling {
						t.Fatalf("Get returned a copy: %+v", again)
					}
				},
				teardown: func() bool { return Remove(w, e1, locos) },
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				if err := tc.setup(); err != nil {
					t.Fatalf("setup failed: %v", err)
				}
				tc.check(t)
				if !tc.teardown() {
					t.Fatalf("teardown failed for %s", tc.name)
				}
			})
		}
	})
}

func TestForEach(t *testing.T) {
	t.Run("characters_with_transforms", func(t *testing.T) {
		w := NewWorld()
		transforms := component.TransformComponent.Kind()
		players := component.PlayerTagComponent.Kind()

		player := CreateEntity(w)
		camera := CreateEntity(w)
		npc := CreateEntity(w)

		for _, e := range []Entity{player, camera, npc} {
			if err := Add(w, e, transforms, &component.Transform{}); err != nil {
				t.Fatalf("add failed: %v", err)
			}
		}
		if err := Add(w, player, players, &component.PlayerTag{Name: "player"}); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if err := Add(w, npc, players, &component.PlayerTag{Name: "npc"}); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if err := Add(w, camera, component.CameraRigComponent.Kind(), &component.CameraRig{}); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		var ents []Entity
		ForEach(w, players, func(e Entity, _ *component.PlayerTag) { ents = append(ents, e) })
		set := toSet(ents)
		if _, ok := set[player]; !ok {
			t.Fatalf("expected player in ForEach result")
		}
		if _, ok := set[npc]; !ok {
			t.Fatalf("expected npc in ForEach result")
		}
		if _, ok := set[camera]; ok {
			t.Fatalf("did not expect camera in ForEach result")
		}

		ForEach2(w, players, transforms, func(_ Entity, p *component.PlayerTag, tr *component.Transform) {
			tr.Yaw = float64(len(p.Name))
		})
		if tr, _ := Get(w, npc, transforms); tr.Yaw != 3 {
			t.Fatalf("npc yaw = %v, want 3", tr.Yaw)
		}
		if tr, _ := Get(w, camera, transforms); tr.Yaw != 0 {
			t.Fatalf("camera transform touched: %+v", tr)
		}
	})
}

func TestForEach3(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)
				e3 := CreateEntity(w)
				e4 := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				if err := Add(w, e1, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, ka, intPtr(2)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, kb, intPtr(3)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, kc, intPtr(5)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e3, kb, intPtr(4)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e4, kc, intPtr(6)); err != nil {
					t.Fatal(err)
				}

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 1 || res[0].id() != e2.id() {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				if err := Add(w, e, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e, kb, intPtr(2)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e, kc, intPtr(3)); err != nil {
					t.Fatal(err)
				}

				if !DestroyEntity(w, e) {
					t.Fatal("failed to destroy entity")
				}

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "no_common",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				if err := Add(w, e1, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, kb, intPtr(2)); err != nil {
					t.Fatal(err)
				}

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected no common entities, got %v", res)
				}
			},
		},
		{
			name: "missing_store_returns_nil",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				if err := Add(w, e, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if res != nil && len(res) != 0 {
					t.Fatalf("expected empty when other store missing, got %v", res)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestForEach4(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)
				e3 := CreateEntity(w)
				e4 := CreateEntity(w)
				e5 := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()
				kd := component.NewComponentKind[int]()

				// e2 will be the only entity having all four
				if err := Add(w, e1, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, ka, intPtr(2)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, kb, intPtr(3)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, kc, intPtr(5)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, kd, intPtr(7)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e3, kb, intPtr(4)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e4, kc, intPtr(6)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e5, kd, intPtr(8)); err != nil {
					t.Fatal(err)
				}

				var res []Entity
				ForEach4(w, ka, kb, kc, kd, func(e Entity, _ *int, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 1 || res[0].id() != e2.id() {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()
				kd := component.NewComponentKind[int]()

				if err := Add(w, e, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e, kb, intPtr(2)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e, kc, intPtr(3)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e, kd, intPtr(4)); err != nil {
					t.Fatal(err)
				}

				if !DestroyEntity(w, e) {
					t.Fatal("failed to destroy entity")
				}

				var res []Entity
				ForEach4(w, ka, kb, kc, kd, func(e Entity, _ *int, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "no_common",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()
				kd := component.NewComponentKind[int]()

				if err := Add(w, e1, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, kb, intPtr(2)); err != nil {
					t.Fatal(err)
				}

				var res []Entity
				ForEach4(w, ka, kb, kc, kd, func(e Entity, _ *int, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected no common entities, got %v", res)
				}
			},
		},
		{
			name: "missing_store_returns_nil",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()
				kd := component.NewComponentKind[int]()

				if err := Add(w, e, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}

				var res []Entity
				ForEach4(w, ka, kb, kc, kd, func(e Entity, _ *int, _ *int, _ *int, _ *int) { res = append(res, e) })
				if res != nil && len(res) != 0 {
					t.Fatalf("expected empty when other store missing, got %v", res)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestStaleHandleAfterReuse(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	if err := Add(w, old, h.Kind(), intPtr(1)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, old)
	reused := CreateEntity(w)

	if reused.id() != old.id() {
		t.Fatalf("expected slot reuse, got %v and %v", old, reused)
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle reported alive")
	}
	if Has[int](w, reused, h.Kind()) {
		t.Fatalf("reused slot inherited a component")
	}
	if err := Add(w, old, h.Kind(), intPtr(2)); err != component.ErrEntityNotAlive {
		t.Fatalf("add on stale handle err = %v", err)
	}
	if DestroyEntity(w, old) {
		t.Fatalf("destroyed a stale handle")
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	if err := Add[int](w, e, component.NewComponentKind[int](), nil); err != component.ErrNilComponent {
		t.Fatalf("nil value err = %v", err)
	}
	var zero component.ComponentKind[int]
	if err := Add(w, e, zero, intPtr(1)); err != component.ErrInvalidComponentKind {
		t.Fatalf("zero kind err = %v", err)
	}
}

func TestFirstAndForEach2(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[string]()

	if _, _, ok := First(w, ka); ok {
		t.Fatalf("First on empty store returned ok")
	}

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)
	_ = Add(w, e3, ka, intPtr(3))
	_ = Add(w, e2, ka, intPtr(2))
	_ = Add(w, e2, kb, stringPtr("two"))
	_ = Add(w, e1, kb, stringPtr("one"))

	e, v, ok := First(w, ka)
	if !ok || e != e2 || *v != 2 {
		t.Fatalf("First = %v %v %v, want e2", e, v, ok)
	}

	var got []string
	ForEach2(w, ka, kb, func(_ Entity, n *int, s *string) {
		got = append(got, *s)
		*n = 20
	})
	if len(got) != 1 || got[0] != "two" {
		t.Fatalf("ForEach2 visited %v", got)
	}
	if v, _ := Get(w, e2, ka); *v != 20 {
		t.Fatalf("mutation through pointer lost: %d", *v)
	}
}

func TestForEachAllowsRemoval(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	for i := 0; i < 5; i++ {
		_ = Add(w, CreateEntity(w), k, intPtr(i))
	}
	visited := 0
	ForEach(w, k, func(e Entity, _ *int) {
		visited++
		Remove(w, e, k)
	})
	if visited != 5 {
		t.Fatalf("visited %d of 5", visited)
	}
	if n := w.store(k.ID(), false).Len(); n != 0 {
		t.Fatalf("%d components left", n)
	}
}

type recordSystem struct {
	name string
	log  *[]string
}

func (s recordSystem) Update(w *World) {
	*s.log = append(*s.log, s.name)
	w.Events().Push(Event{Type: EventType(s.name)})
}

func TestSchedulerOrderAndEvents(t *testing.T) {
	w := NewWorld()
	var order []string
	var seen []EventType
	var dt float64

	s := NewScheduler(recordSystem{"a", &order}, recordSystem{"b", &order})
	s.Add(nil)
	s.Add(SystemFunc(func(w *World) {
		dt = w.DeltaTime()
		for _, evt := range w.Events().Peek() {
			seen = append(seen, evt.Type)
		}
	}))

	s.Update(w, 0.5)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("order = %v", order)
	}
	if len(seen) != 2 || dt != 0.5 {
		t.Fatalf("seen = %v dt = %v", seen, dt)
	}
	if len(w.Events().Peek()) != 0 {
		t.Fatalf("events survived the frame")
	}
	if w.Frame() != 1 {
		t.Fatalf("frame = %d", w.Frame())
	}
	if len(s.Systems()) != 3 {
		t.Fatalf("systems = %d", len(s.Systems()))
	}
}
