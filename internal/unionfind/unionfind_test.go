package unionfind

import "testing"

func TestAddIsIdempotent(t *testing.T) {
	uf := New()
	uf.Add(1)
	uf.Add(1)
	if uf.Len() != 1 {
		t.Errorf("expected 1 element after repeated Add, got %d", uf.Len())
	}
}

func TestFindPanicsWithoutAdd(t *testing.T) {
	uf := New()
	defer func() {
		if recover() == nil {
			t.Error("expected panic calling Find before Add")
		}
	}()
	uf.Find(1)
}

func TestUnionAndFindScenarioE(t *testing.T) {
	uf := New()
	for i := 1; i <= 5; i++ {
		uf.Add(i)
	}
	uf.Union(1, 2)
	uf.Union(3, 4)
	uf.Union(2, 3)

	root := uf.Find(1)
	for i := 2; i <= 4; i++ {
		if uf.Find(i) != root {
			t.Errorf("expected element %d to share root %d, got %d", i, root, uf.Find(i))
		}
	}
	if uf.Find(5) != 5 {
		t.Errorf("expected element 5 to remain its own root, got %d", uf.Find(5))
	}
}

func TestFindMatchesConnectedComponents(t *testing.T) {
	uf := New()
	for i := 0; i < 10; i++ {
		uf.Add(i)
	}
	uf.Union(0, 1)
	uf.Union(1, 2)
	uf.Union(5, 6)
	uf.Union(7, 8)
	uf.Union(8, 9)

	groups := [][]int{{0, 1, 2}, {5, 6}, {7, 8, 9}, {3}, {4}}
	for _, g := range groups {
		root := uf.Find(g[0])
		for _, x := range g {
			if uf.Find(x) != root {
				t.Errorf("element %d not in expected component with root %d", x, root)
			}
		}
	}
	if uf.Connected(0, 5) {
		t.Error("0 and 5 should not be connected")
	}
}

func TestUnionOnSameRootIsNoop(t *testing.T) {
	uf := New()
	uf.Add(1)
	uf.Add(2)
	uf.Union(1, 2)
	root := uf.Find(1)
	uf.Union(1, 2)
	if uf.Find(1) != root || uf.Find(2) != root {
		t.Error("union on already-connected elements should not change roots")
	}
}

func TestPathCompression(t *testing.T) {
	uf := New()
	for i := 0; i < 5; i++ {
		uf.Add(i)
	}
	// Chain: 0 <- 1 <- 2 <- 3 <- 4. Union by rank would attach every node
	// directly under 0, so the chain is wired by hand.
	uf.parent[1] = 0
	uf.parent[2] = 1
	uf.parent[3] = 2
	uf.parent[4] = 3

	root := uf.Find(4)
	if uf.parent[4] != root {
		t.Errorf("expected 4 to point directly at root %d after Find, got %d", root, uf.parent[4])
	}
}
