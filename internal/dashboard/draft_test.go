package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/inventory_dashboard/internal/models"
)

func TestDraft_Parse(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		want    models.ProductFields
		wantErr bool
	}{
		{
			name:  "valid",
			draft: Draft{Name: "Pen", Price: "5000", Quantity: "100"},
			want:  models.ProductFields{Name: "Pen", Price: 5000, Quantity: 100},
		},
		{
			name:  "fractional price",
			draft: Draft{Name: "Tape", Price: "12.5", Quantity: "3"},
			want:  models.ProductFields{Name: "Tape", Price: 12.5, Quantity: 3},
		},
		{
			name:  "zeroes are allowed",
			draft: Draft{Name: "Sample", Price: "0", Quantity: "0"},
			want:  models.ProductFields{Name: "Sample", Price: 0, Quantity: 0},
		},
		{
			name:  "numbers are trimmed",
			draft: Draft{Name: "Pen", Price: " 10 ", Quantity: " 2 "},
			want:  models.ProductFields{Name: "Pen", Price: 10, Quantity: 2},
		},
		{
			name:  "name is sent as typed",
			draft: Draft{Name: " Pen ", Price: "1", Quantity: "1"},
			want:  models.ProductFields{Name: " Pen ", Price: 1, Quantity: 1},
		},
		{name: "blank name", draft: Draft{Name: "   ", Price: "1", Quantity: "1"}, wantErr: true},
		{name: "missing price", draft: Draft{Name: "Pen", Quantity: "1"}, wantErr: true},
		{name: "missing quantity", draft: Draft{Name: "Pen", Price: "1"}, wantErr: true},
		{name: "negative price", draft: Draft{Name: "Pen", Price: "-1", Quantity: "1"}, wantErr: true},
		{name: "NaN price", draft: Draft{Name: "Pen", Price: "NaN", Quantity: "1"}, wantErr: true},
		{name: "infinite price", draft: Draft{Name: "Pen", Price: "Inf", Quantity: "1"}, wantErr: true},
		{name: "fractional quantity", draft: Draft{Name: "Pen", Price: "1", Quantity: "2.5"}, wantErr: true},
		{name: "text quantity", draft: Draft{Name: "Pen", Price: "1", Quantity: "ten"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.draft.Parse()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidDraft)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDraftFrom(t *testing.T) {
	assert.Equal(t, Draft{Name: "Pen", Price: "5000", Quantity: "100"},
		DraftFrom(models.Product{ID: 1, Name: "Pen", Price: 5000, Quantity: 100}))
	assert.Equal(t, Draft{Name: "Tape", Price: "12.5", Quantity: "3"},
		DraftFrom(models.Product{Name: "Tape", Price: 12.5, Quantity: 3}))
}

func TestDraftFrom_RoundTripsThroughParse(t *testing.T) {
	p := models.Product{ID: 4, Name: "Glue", Price: 7250.75, Quantity: 12}
	fields, err := DraftFrom(p).Parse()
	require.NoError(t, err)
	assert.Equal(t, models.ProductFields{Name: "Glue", Price: 7250.75, Quantity: 12}, fields)
}

func TestPatchFrom_SetsEveryField(t *testing.T) {
	patch := patchFrom(models.ProductFields{Name: "Pen", Price: 5000, Quantity: 50})
	require.False(t, patch.Empty())

	p := models.Product{ID: 1, Name: "Old", Price: 1, Quantity: 1}
	patch.Apply(&p)
	assert.Equal(t, models.Product{ID: 1, Name: "Pen", Price: 5000, Quantity: 50}, p)
}
