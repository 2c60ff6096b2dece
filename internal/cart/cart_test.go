package cart

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	teaHot := Line{MenuID: 4, Name: "Teh", Price: 7000, Quantity: 1, CustomRequest: "hot"}
	teaIce := Line{MenuID: 4, Name: "Teh", Price: 7000, Quantity: 2, CustomRequest: "ice"}
	chicken := Line{MenuID: 1, Name: "Ayam Bakar", Price: 20000, Quantity: 1}

	tests := []struct {
		name  string
		start Cart
		items []Line
		want  Cart
	}{
		{
			name:  "append to empty cart",
			start: nil,
			items: []Line{teaHot},
			want:  Cart{teaHot},
		},
		{
			name:  "same menu and custom request increases quantity",
			start: Cart{chicken, teaHot},
			items: []Line{{MenuID: 4, Name: "Teh", Price: 7000, Quantity: 3, CustomRequest: "hot"}},
			want: Cart{
				chicken,
				{MenuID: 4, Name: "Teh", Price: 7000, Quantity: 4, CustomRequest: "hot"},
			},
		},
		{
			name:  "different custom request appends a new line",
			start: Cart{teaHot},
			items: []Line{teaIce},
			want:  Cart{teaHot, teaIce},
		},
		{
			name:  "zero quantity counts as one",
			start: Cart{chicken},
			items: []Line{{MenuID: 1, Name: "Ayam Bakar", Price: 20000, Quantity: 0}},
			want:  Cart{{MenuID: 1, Name: "Ayam Bakar", Price: 20000, Quantity: 2}},
		},
		{
			name:  "merges into first of duplicated legacy lines",
			start: Cart{chicken, chicken},
			items: []Line{chicken},
			want: Cart{
				{MenuID: 1, Name: "Ayam Bakar", Price: 20000, Quantity: 2},
				chicken,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.start.Clone()
			got := Merge(tt.start, tt.items)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(before, tt.start); diff != "" {
				t.Errorf("Merge() mutated its input (-before +after):\n%s", diff)
			}
		})
	}
}

func TestCart_TotalAndSummary(t *testing.T) {
	c := Cart{
		{MenuID: 4, Name: "Teh", Price: 7000, Quantity: 2, CustomRequest: "hot"},
		{MenuID: 1, Name: "Ayam Bakar", Price: 20000, Quantity: 1},
	}

	assert.Equal(t, int64(34000), c.Total())
	assert.Equal(t, "Pesanan: 2x Teh (hot), 1x Ayam Bakar. Total: Rp 34.000", c.Summary())
}

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{20000, "Rp 20.000"},
		{1250000, "Rp 1.250.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRupiah(tt.in))
	}
	assert.Equal(t, "15.000", FormatThousands(15000))
}
