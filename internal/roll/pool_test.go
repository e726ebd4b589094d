package roll

import (
	"testing"

	"github.com/louisbranch/storyteller.space/internal/platform/errors"
)

// scripted replays fixed d10 faces. Values are the faces themselves.
type scripted struct {
	faces []int
	next  int
}

func (s *scripted) Intn(n int) int {
	if s.next >= len(s.faces) {
		s.next = 0
	}
	face := s.faces[s.next]
	s.next++
	return (face - 1) % n
}

func TestEvaluatePoolCountsSuccesses(t *testing.T) {
	src := &scripted{faces: []int{7, 3, 9, 6, 2}}
	result, err := EvaluatePool(src, PoolSpec{Pool: 5}, PoolOptions{DefaultDifficulty: 6})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if result.Successes != 3 {
		t.Fatalf("successes = %d, want 3", result.Successes)
	}
	if result.Botch {
		t.Fatal("unexpected botch")
	}
	want := []int{9, 7, 6, 3, 2}
	for i, die := range want {
		if result.Dice[i] != die {
			t.Fatalf("dice[%d] = %d, want %d (descending order)", i, result.Dice[i], die)
		}
	}
}

func TestEvaluatePoolBotch(t *testing.T) {
	src := &scripted{faces: []int{1}}
	result, err := EvaluatePool(src, PoolSpec{Pool: 1, Difficulty: 6, HasDifficulty: true}, PoolOptions{DefaultDifficulty: 6})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !result.Botch {
		t.Fatal("expected botch")
	}
	if result.Successes != -1 {
		t.Fatalf("successes = %d, want -1", result.Successes)
	}
	if got := result.Summary(); got != "Botch: -1" {
		t.Fatalf("summary = %q", got)
	}
}

func TestEvaluatePoolOnesCancelSuccesses(t *testing.T) {
	src := &scripted{faces: []int{8, 1, 1, 4}}
	result, err := EvaluatePool(src, PoolSpec{Pool: 4}, PoolOptions{DefaultDifficulty: 6})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	// One success minus two ones clamps at zero, not a botch.
	if result.Botch {
		t.Fatal("unexpected botch with a rolled success")
	}
	if result.Successes != 0 {
		t.Fatalf("successes = %d, want 0", result.Successes)
	}
	if got := result.Summary(); got != "Failure" {
		t.Fatalf("summary = %q", got)
	}
}

func TestEvaluatePoolWillpower(t *testing.T) {
	src := &scripted{faces: []int{1, 1, 2}}
	result, err := EvaluatePool(src, PoolSpec{Pool: 3}, PoolOptions{
		DefaultDifficulty: 6,
		Willpower:         true,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	// Willpower can never botch and guarantees one success.
	if result.Botch {
		t.Fatal("willpower roll must not botch")
	}
	if result.Successes != 1 {
		t.Fatalf("successes = %d, want 1", result.Successes)
	}
}

func TestEvaluatePoolWillpowerCancelable(t *testing.T) {
	src := &scripted{faces: []int{1, 1, 2}}
	result, err := EvaluatePool(src, PoolSpec{Pool: 3}, PoolOptions{
		DefaultDifficulty: 6,
		Willpower:         true,
		WPCancelable:      true,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if result.Botch {
		t.Fatal("willpower roll must not botch")
	}
	if result.Successes != 0 {
		t.Fatalf("successes = %d, want 0 when ones cancel willpower", result.Successes)
	}
}

func TestEvaluatePoolSpecialtyDoublesTens(t *testing.T) {
	src := &scripted{faces: []int{10, 10, 6, 2}}
	result, err := EvaluatePool(src, PoolSpec{Pool: 4, Specialty: "Brawling"}, PoolOptions{DefaultDifficulty: 6})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if result.Successes != 5 {
		t.Fatalf("successes = %d, want 5 (two doubled tens)", result.Successes)
	}
	if !result.DoubleTens {
		t.Fatal("expected double tens with a specialty")
	}
}

func TestEvaluatePoolNeverDoubleWins(t *testing.T) {
	src := &scripted{faces: []int{10, 6}}
	result, err := EvaluatePool(src, PoolSpec{Pool: 2, Specialty: "Brawling"}, PoolOptions{
		DefaultDifficulty: 6,
		AlwaysDouble:      true,
		NeverDouble:       true,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if result.Successes != 2 {
		t.Fatalf("successes = %d, want 2 with doubling disabled", result.Successes)
	}
}

func TestEvaluatePoolExplosions(t *testing.T) {
	// Each ten keeps rolling while explosions are active.
	src := &scripted{faces: []int{10, 10, 4, 3}}
	result, err := EvaluatePool(src, PoolSpec{Pool: 2}, PoolOptions{
		DefaultDifficulty: 6,
		ExplodeAlways:     true,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if result.Explosions != 2 {
		t.Fatalf("explosions = %d, want 2", result.Explosions)
	}
	if len(result.Dice) != 4 {
		t.Fatalf("dice count = %d, want 4", len(result.Dice))
	}
	if result.Successes != 2 {
		t.Fatalf("successes = %d, want 2", result.Successes)
	}
}

func TestEvaluatePoolNoExplosionsByDefault(t *testing.T) {
	src := &scripted{faces: []int{10, 10}}
	result, err := EvaluatePool(src, PoolSpec{Pool: 2}, PoolOptions{DefaultDifficulty: 6})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if result.Explosions != 0 {
		t.Fatalf("explosions = %d, want 0", result.Explosions)
	}
	if len(result.Dice) != 2 {
		t.Fatalf("dice count = %d, want 2", len(result.Dice))
	}
}

func TestEvaluatePoolAutos(t *testing.T) {
	src := &scripted{faces: []int{7, 3}}
	result, err := EvaluatePool(src, PoolSpec{Pool: 2, Autos: 2}, PoolOptions{DefaultDifficulty: 6})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if result.Successes != 3 {
		t.Fatalf("successes = %d, want 3 with +2 autos", result.Successes)
	}

	src = &scripted{faces: []int{7, 3}}
	result, err = EvaluatePool(src, PoolSpec{Pool: 2, Autos: -2}, PoolOptions{DefaultDifficulty: 6})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if result.Successes != 0 {
		t.Fatalf("successes = %d, want 0 with -2 autos", result.Successes)
	}
}

func TestEvaluatePoolChronicles(t *testing.T) {
	// Willpower adds three dice instead of a guaranteed success, and tens
	// explode by default.
	src := &scripted{faces: []int{8, 3, 5, 9, 2, 10, 7}}
	result, err := EvaluatePool(src, PoolSpec{Pool: 3}, PoolOptions{
		DefaultDifficulty: 8,
		Chronicles:        true,
		Willpower:         true,
		NullifyOnes:       true,
		NoBotch:           true,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if result.Willpower {
		t.Fatal("chronicles willpower must convert to dice, not a success")
	}
	if len(result.Dice) != 7 {
		t.Fatalf("dice count = %d, want 7 (6 pool + 1 explosion)", len(result.Dice))
	}
	if result.Explosions != 1 {
		t.Fatalf("explosions = %d, want 1", result.Explosions)
	}
	// Successes at difficulty 8: faces 8, 9, 10.
	if result.Successes != 3 {
		t.Fatalf("successes = %d, want 3", result.Successes)
	}
}

func TestEvaluatePoolChroniclesXAgain(t *testing.T) {
	src := &scripted{faces: []int{9, 4, 3}}
	result, err := EvaluatePool(src, PoolSpec{Pool: 2, Difficulty: 9, HasDifficulty: true}, PoolOptions{
		DefaultDifficulty: 8,
		Chronicles:        true,
		NullifyOnes:       true,
		NoBotch:           true,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if result.XAgain != 9 {
		t.Fatalf("x-again = %d, want 9", result.XAgain)
	}
	if result.Explosions != 1 {
		t.Fatalf("explosions = %d, want 1", result.Explosions)
	}
}

func TestEvaluatePoolValidation(t *testing.T) {
	src := &scripted{faces: []int{5}}

	_, err := EvaluatePool(src, PoolSpec{Pool: 0}, PoolOptions{DefaultDifficulty: 6})
	if errors.CodeOf(err) != errors.CodeValidationPoolRange {
		t.Fatalf("pool 0: code = %v", errors.CodeOf(err))
	}

	_, err = EvaluatePool(src, PoolSpec{Pool: 101}, PoolOptions{DefaultDifficulty: 6})
	if errors.CodeOf(err) != errors.CodeValidationPoolRange {
		t.Fatalf("pool 101: code = %v", errors.CodeOf(err))
	}

	_, err = EvaluatePool(src, PoolSpec{Pool: 5, Difficulty: 11, HasDifficulty: true}, PoolOptions{DefaultDifficulty: 6})
	if errors.CodeOf(err) != errors.CodeValidationDifficultyRange {
		t.Fatalf("difficulty 11: code = %v", errors.CodeOf(err))
	}

	_, err = EvaluatePool(src, PoolSpec{Pool: 5, Difficulty: 7, HasDifficulty: true}, PoolOptions{
		DefaultDifficulty: 8,
		Chronicles:        true,
	})
	if errors.CodeOf(err) != errors.CodeValidationExplodeRange {
		t.Fatalf("x-again below difficulty: code = %v", errors.CodeOf(err))
	}
}

func TestPoolResultFormattedDice(t *testing.T) {
	result := &PoolResult{
		Dice:       []int{10, 7, 3, 1},
		Difficulty: 6,
		DoubleTens: true,
		Willpower:  true,
		Autos:      2,
	}
	want := "**10**, 7, ~~3~~, ~~***1***~~ *+WP* *+2*"
	if got := result.FormattedDice(); got != want {
		t.Fatalf("formatted dice = %q, want %q", got, want)
	}
}

func TestPoolResultTitle(t *testing.T) {
	result := &PoolResult{Pool: 7, Difficulty: 6, Autos: 2, Explosions: 1}
	want := "Pool 7, diff. 6, +2 successes (+1 explosion)"
	if got := result.Title(false); got != want {
		t.Fatalf("title = %q, want %q", got, want)
	}

	result = &PoolResult{Pool: 5, Difficulty: 8, XAgain: 9}
	if got := result.Title(true); got != "Pool 5, 9-again" {
		t.Fatalf("chronicles title = %q", got)
	}
}
