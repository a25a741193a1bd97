package domain_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/randomtoy/tarot-spreads/internal/domain"
)

// deterministicRNG returns values from pre-set sequences.
type deterministicRNG struct {
	values []int
	idx    int
	floats []float64
	fidx   int
}

func (r *deterministicRNG) Intn(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.idx%len(r.values)] % n
	r.idx++
	return v
}

func (r *deterministicRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	v := r.floats[r.fidx%len(r.floats)]
	r.fidx++
	return v
}

func testDeck(n int) domain.Deck {
	cards := make([]domain.CardMeaning, n)
	for i := range n {
		cards[i] = domain.CardMeaning{
			ID:       i,
			Name:     "Card " + string(rune('A'+i)),
			Upright:  "Up.",
			Reversed: "Down.",
		}
	}
	return domain.Deck{ID: "test", Name: "Test Deck", Cards: cards}
}

func newBoard(t *testing.T, n int, rng domain.RNG) *domain.Board {
	t.Helper()
	b, err := domain.NewBoard(testDeck(n), rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.Initialize()
	return b
}

func ids(cards []domain.CardInstance) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestNewBoard_RejectsBadDecks(t *testing.T) {
	if _, err := domain.NewBoard(domain.Deck{}, &deterministicRNG{}); !errors.Is(err, domain.ErrEmptyDeck) {
		t.Errorf("expected ErrEmptyDeck, got %v", err)
	}

	deck := testDeck(3)
	deck.Cards[2].ID = 0
	if _, err := domain.NewBoard(deck, &deterministicRNG{}); !errors.Is(err, domain.ErrDuplicateCard) {
		t.Errorf("expected ErrDuplicateCard, got %v", err)
	}
}

func TestInitialize_AllUnplacedUpright(t *testing.T) {
	b := newBoard(t, 22, &deterministicRNG{floats: []float64{0, 0.25, 0.75}})

	cards := b.Cards()
	if len(cards) != 22 {
		t.Fatalf("expected 22 cards, got %d", len(cards))
	}
	seen := make(map[int]bool)
	for i, c := range cards {
		if c.ID != i {
			t.Errorf("card %d: expected table order, got id %d", i, c.ID)
		}
		if seen[c.ID] {
			t.Errorf("duplicate card ID: %d", c.ID)
		}
		seen[c.ID] = true
		if c.Placed() || c.Reversed {
			t.Errorf("card %d: expected unplaced upright, got %+v", c.ID, c)
		}
	}

	want := domain.Jitter{Angle: -5, OffsetX: -1.5, OffsetY: 1.5}
	if diff := cmp.Diff(want, cards[0].Jitter); diff != "" {
		t.Errorf("jitter mismatch (-want +got):\n%s", diff)
	}
}

func TestInitialize_ReplacesState(t *testing.T) {
	b := newBoard(t, 3, &deterministicRNG{})
	if err := b.Place(1, "Desafio"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b.Initialize()

	if got := ids(b.Unplaced()); !cmp.Equal(got, []int{0, 1, 2}) {
		t.Errorf("expected all cards back in the deck, got %v", got)
	}
}

func TestShuffle_PermutesAndResets(t *testing.T) {
	// Shuffle draws 4 swap indices for 5 cards, then one coin per card.
	rng := &deterministicRNG{values: []int{
		0, 0, 0, 0, // swaps: i=4<->0, 3<->0, 2<->0, 1<->0
		1, 0, 1, 0, 0, // reversal
	}}
	b := newBoard(t, 5, rng)
	if err := b.Place(2, "Conselho"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b.Shuffle()

	got := ids(b.Unplaced())
	if diff := cmp.Diff([]int{1, 2, 3, 4, 0}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	wantReversed := []bool{true, false, true, false, false}
	for i, c := range b.Cards() {
		if c.Reversed != wantReversed[i] {
			t.Errorf("card %d: expected reversed=%v", c.ID, wantReversed[i])
		}
	}
	if len(b.PlacedAt("Conselho")) != 0 {
		t.Error("expected Conselho to be empty after shuffle")
	}
}

func TestShuffle_KeepsMultisetOfIDs(t *testing.T) {
	b := newBoard(t, 22, domain.NewSeededRNG(7))
	for range 10 {
		b.Shuffle()
		seen := make(map[int]int)
		for _, c := range b.Cards() {
			seen[c.ID]++
			if c.Placed() {
				t.Fatalf("card %d placed after shuffle", c.ID)
			}
		}
		if len(seen) != 22 {
			t.Fatalf("expected 22 distinct ids, got %d", len(seen))
		}
	}
}

func TestShuffle_ReversalIsFair(t *testing.T) {
	b := newBoard(t, 22, domain.NewSeededRNG(42))
	const rounds = 2000
	reversed, total := 0, 0
	for range rounds {
		b.Shuffle()
		for _, c := range b.Cards() {
			if c.Reversed {
				reversed++
			}
			total++
		}
	}
	freq := float64(reversed) / float64(total)
	if freq < 0.48 || freq > 0.52 {
		t.Errorf("expected ~50%% reversed, got %.3f", freq)
	}
}

func TestClear_KeepsReversalAndJitter(t *testing.T) {
	b := newBoard(t, 6, domain.NewSeededRNG(1))
	b.Shuffle()
	for _, id := range []int{0, 3, 5} {
		if err := b.Place(id, "Presente"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	before := b.Cards()

	b.Clear()
	once := b.Cards()
	b.Clear()
	twice := b.Cards()

	for i, c := range once {
		if c.Placed() {
			t.Errorf("card %d still placed after clear", c.ID)
		}
		if c.Reversed != before[i].Reversed || c.Jitter != before[i].Jitter {
			t.Errorf("card %d: clear changed reversal or jitter", c.ID)
		}
	}
	if diff := cmp.Diff(once, twice, cmp.AllowUnexported(domain.CardInstance{})); diff != "" {
		t.Errorf("clear is not idempotent (-once +twice):\n%s", diff)
	}
}

func TestPlace_MovesCardOutOfDeck(t *testing.T) {
	b := newBoard(t, 4, &deterministicRNG{})

	if err := b.Place(2, "Desafio"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := ids(b.PlacedAt("Desafio")); !cmp.Equal(got, []int{2}) {
		t.Errorf("expected [2] at Desafio, got %v", got)
	}
	for _, c := range b.Unplaced() {
		if c.ID == 2 {
			t.Error("card 2 still in the deck")
		}
	}
	if b.IsUnplaced(2) {
		t.Error("IsUnplaced(2) should be false")
	}
}

func TestPlace_StacksInDropOrder(t *testing.T) {
	b := newBoard(t, 5, &deterministicRNG{})
	for _, id := range []int{4, 1, 3} {
		if err := b.Place(id, "Resultado"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// Moving a card elsewhere and back puts it on top.
	_ = b.Place(4, "Acima")
	_ = b.Place(4, "Resultado")

	if diff := cmp.Diff([]int{1, 3, 4}, ids(b.PlacedAt("Resultado"))); diff != "" {
		t.Errorf("stack order mismatch (-want +got):\n%s", diff)
	}
}

func TestPlace_Errors(t *testing.T) {
	b := newBoard(t, 2, &deterministicRNG{})
	before := b.Cards()

	if err := b.Place(9, "Desafio"); !errors.Is(err, domain.ErrCardNotFound) {
		t.Errorf("expected ErrCardNotFound, got %v", err)
	}
	if err := b.Place(0, ""); !errors.Is(err, domain.ErrEmptyPosition) {
		t.Errorf("expected ErrEmptyPosition, got %v", err)
	}
	if diff := cmp.Diff(before, b.Cards(), cmp.AllowUnexported(domain.CardInstance{})); diff != "" {
		t.Errorf("failed place changed state:\n%s", diff)
	}
}

func TestPlace_AcceptsAnyLabel(t *testing.T) {
	b := newBoard(t, 2, &deterministicRNG{})
	if err := b.Place(0, "Nowhere"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(b.PlacedAt("Nowhere")); !cmp.Equal(got, []int{0}) {
		t.Errorf("expected [0] at Nowhere, got %v", got)
	}
}

func TestTwoCardScenario(t *testing.T) {
	b := newBoard(t, 2, domain.NewSeededRNG(3))

	if got := ids(b.Unplaced()); !cmp.Equal(got, []int{0, 1}) {
		t.Fatalf("expected [0 1], got %v", got)
	}
	if len(b.PlacedAt("Conselho")) != 0 {
		t.Fatal("expected no placed cards")
	}

	if err := b.Place(0, "Conselho"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(b.Unplaced()); !cmp.Equal(got, []int{1}) {
		t.Errorf("expected [1], got %v", got)
	}
	if got := ids(b.PlacedAt("Conselho")); !cmp.Equal(got, []int{0}) {
		t.Errorf("expected [0], got %v", got)
	}

	b.Shuffle()
	if got := b.Unplaced(); len(got) != 2 {
		t.Errorf("expected both cards unplaced, got %v", ids(got))
	}
	if len(b.PlacedAt("Conselho")) != 0 {
		t.Error("expected Conselho empty after shuffle")
	}
}

func TestGeneration_BumpsOnBulkResets(t *testing.T) {
	b := newBoard(t, 2, &deterministicRNG{})
	g := b.Generation()

	_ = b.Place(0, "Desafio")
	if b.Generation() != g {
		t.Error("place must not bump the generation")
	}
	b.Clear()
	b.Shuffle()
	if b.Generation() != g+2 {
		t.Errorf("expected generation %d, got %d", g+2, b.Generation())
	}
}

func TestQueriesReturnCopies(t *testing.T) {
	b := newBoard(t, 2, &deterministicRNG{})
	cards := b.Cards()
	cards[0].Position = "Hacked"

	if len(b.PlacedAt("Hacked")) != 0 {
		t.Error("mutating a query result leaked into the board")
	}
}
