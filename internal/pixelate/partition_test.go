package pixelate

import (
	"errors"
	"testing"
)

func TestPartitions(t *testing.T) {
	tests := []struct {
		name                 string
		width, size, workers int
		want                 []Partition
	}{
		{"single worker", 10, 4, 1, []Partition{{0, 10}}},
		{"even split", 16, 4, 4, []Partition{{0, 4}, {4, 8}, {8, 12}, {12, 16}}},
		{"rounded down to blocks", 100, 8, 3, []Partition{{0, 32}, {32, 64}, {64, 100}}},
		{"last takes remainder", 10, 3, 2, []Partition{{0, 3}, {3, 10}}},
		{"more workers than columns", 3, 1, 5, []Partition{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 3}}},
		{"block wider than stride", 12, 8, 4, []Partition{{0, 0}, {0, 0}, {0, 8}, {8, 12}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Partitions(tt.width, tt.size, tt.workers)
			if err != nil {
				t.Fatalf("Partitions failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("partition %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPartitions_InvalidArgs(t *testing.T) {
	tests := []struct {
		name                 string
		width, size, workers int
	}{
		{"zero width", 0, 4, 2},
		{"zero size", 10, 0, 2},
		{"negative size", 10, -3, 2},
		{"zero workers", 10, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Partitions(tt.width, tt.size, tt.workers)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("got %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestPartitions_CoverAlignedDisjoint(t *testing.T) {
	for width := 1; width <= 70; width++ {
		for _, size := range []int{1, 2, 3, 4, 7, 16, 100} {
			for workers := 1; workers <= 9; workers++ {
				parts, err := Partitions(width, size, workers)
				if err != nil {
					t.Fatalf("Partitions(%d,%d,%d): %v", width, size, workers, err)
				}
				if len(parts) != workers {
					t.Fatalf("Partitions(%d,%d,%d): %d ranges", width, size, workers, len(parts))
				}

				owner := make([]int, width)
				for i, p := range parts {
					if p.XStart%size != 0 {
						t.Errorf("Partitions(%d,%d,%d): range %d starts at %d, not block aligned",
							width, size, workers, i, p.XStart)
					}
					if p.XEnd < p.XStart {
						t.Errorf("Partitions(%d,%d,%d): range %d inverted %v", width, size, workers, i, p)
					}
					for x := p.XStart; x < p.XEnd; x++ {
						owner[x]++
					}
				}
				if parts[0].XStart != 0 || parts[workers-1].XEnd != width {
					t.Errorf("Partitions(%d,%d,%d): bounds %v", width, size, workers, parts)
				}
				for x, n := range owner {
					if n != 1 {
						t.Errorf("Partitions(%d,%d,%d): column %d owned %d times", width, size, workers, x, n)
					}
				}
			}
		}
	}
}
