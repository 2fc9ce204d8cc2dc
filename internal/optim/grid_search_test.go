package optim

import (
	"context"
	"errors"
	"math"
	"testing"
)

func bowl(_ context.Context, p map[string]float64) (map[string]float64, error) {
	return map[string]float64{"cost": math.Pow(p["kp"]-2, 2) + math.Pow(p["kd"]-1, 2)}, nil
}

func TestGridSearch(t *testing.T) {
	g := NewGridSearch([]string{"kp", "kd"}, [][]float64{{1, 2, 3}, {0, 1}})
	if g.Points() != 6 {
		t.Errorf("expected 6 points, got %d", g.Points())
	}

	params, best, err := g.Search(context.Background(), bowl, "cost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params["kp"] != 2 || params["kd"] != 1 {
		t.Errorf("expected kp=2 kd=1, got %v", params)
	}
	if best != 0 {
		t.Errorf("expected cost 0, got %f", best)
	}
}

func TestGridSearch_SkipsFailures(t *testing.T) {
	calls := 0
	eval := func(ctx context.Context, p map[string]float64) (map[string]float64, error) {
		calls++
		if p["kp"] == 2 {
			return nil, errors.New("diverged")
		}
		return bowl(ctx, p)
	}
	g := NewGridSearch([]string{"kp"}, [][]float64{{1, 2, 4}})
	params, _, err := g.Search(context.Background(), eval, "cost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 evaluations, got %d", calls)
	}
	if params["kp"] != 1 {
		t.Errorf("expected kp=1, got %v", params)
	}
}

func TestGridSearch_NoResult(t *testing.T) {
	g := NewGridSearch([]string{"kp"}, [][]float64{{1}})
	_, _, err := g.Search(context.Background(), bowl, "missing")
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult, got %v", err)
	}
}

func TestGridSearch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGridSearch([]string{"kp"}, [][]float64{{1, 2}})
	if _, _, err := g.Search(ctx, bowl, "cost"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
