package core

import "testing"

func TestAABBUnionMonotonicity(t *testing.T) {
	b1 := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	b2 := NewAABB(NewVec3(0, 0, 0), NewVec3(3, 2, 5))

	merged := b1.Union(b2)
	if !merged.Contains(b1) {
		t.Errorf("merged box %v does not contain b1 %v", merged, b1)
	}
	if !merged.Contains(b2) {
		t.Errorf("merged box %v does not contain b2 %v", merged, b2)
	}
}

func TestAABBIntersectSlab(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	ray := NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1))

	tEnter, tExit, ok := box.Intersect(ray, 0, 1e18)
	if !ok {
		t.Fatal("expected ray to hit box")
	}
	if tEnter != 4 || tExit != 6 {
		t.Errorf("got (%v, %v), want (4, 6)", tEnter, tExit)
	}

	missRay := NewRay(NewVec3(5, 5, -5), NewVec3(0, 0, 1))
	if _, _, ok := box.Intersect(missRay, 0, 1e18); ok {
		t.Error("expected parallel-offset ray to miss box")
	}
}

func TestEmptyAABBIsUnionIdentity(t *testing.T) {
	b := NewAABB(NewVec3(-1, -2, -3), NewVec3(4, 5, 6))
	merged := EmptyAABB().Union(b)
	if !merged.Equals(b) {
		t.Errorf("union with empty box changed bounds: got %v, want %v", merged, b)
	}
}
