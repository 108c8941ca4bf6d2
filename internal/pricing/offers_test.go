package pricing

import (
	"testing"

	"basket-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func int64Ptr(v int64) *int64 { return &v }

func TestDecodeOffer(t *testing.T) {
	tests := []struct {
		name    string
		record  models.OfferRecord
		want    Offer
		wantErr error
	}{
		{
			name:   "discount",
			record: models.OfferRecord{Type: "discount", ProductID: int64Ptr(3), Value: decimal.NewNullDecimal(decimal.NewFromInt(25))},
			want:   PercentOff{ProductID: 3, Percent: decimal.NewFromInt(25)},
		},
		{
			name:   "multibuy",
			record: models.OfferRecord{Type: "multibuy", ProductID: int64Ptr(1), Threshold: 3},
			want:   Multibuy{ProductID: 1, Threshold: 3},
		},
		{
			name:   "cheapest",
			record: models.OfferRecord{Type: "cheapest", ProductIDs: []int64{4, 5, 6}, Threshold: 3},
			want:   CheapestFree{ProductIDs: []int64{4, 5, 6}, Threshold: 3},
		},
		{
			name:    "unknown type",
			record:  models.OfferRecord{Type: "bogof", ProductID: int64Ptr(1)},
			wantErr: ErrUnknownOfferType,
		},
		{
			name:    "discount over 100",
			record:  models.OfferRecord{Type: "discount", ProductID: int64Ptr(1), Value: decimal.NewNullDecimal(decimal.NewFromInt(120))},
			wantErr: ErrInvalidPercent,
		},
		{
			name:    "discount without value",
			record:  models.OfferRecord{Type: "discount", ProductID: int64Ptr(1)},
			wantErr: ErrInvalidPercent,
		},
		{
			name:    "multibuy zero threshold",
			record:  models.OfferRecord{Type: "multibuy", ProductID: int64Ptr(1)},
			wantErr: ErrInvalidThreshold,
		},
		{
			name:    "multibuy without product",
			record:  models.OfferRecord{Type: "multibuy", Threshold: 2},
			wantErr: ErrMissingProduct,
		},
		{
			name:    "cheapest without products",
			record:  models.OfferRecord{Type: "cheapest", Threshold: 3},
			wantErr: ErrMissingProduct,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeOffer(tt.record)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeOffersSkipsInvalid(t *testing.T) {
	records := []models.OfferRecord{
		{Type: "multibuy", ProductID: int64Ptr(1), Threshold: 3},
		{Type: "mystery"},
		{Type: "cheapest", ProductIDs: []int64{4, 5}, Threshold: 0},
		{Type: "discount", ProductID: int64Ptr(3), Value: decimal.NewNullDecimal(decimal.NewFromInt(25))},
	}

	offers, err := DecodeOffers(records)
	require.Len(t, offers, 2)
	assert.IsType(t, Multibuy{}, offers[0])
	assert.IsType(t, PercentOff{}, offers[1])

	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], ErrUnknownOfferType)
	assert.ErrorIs(t, errs[1], ErrInvalidThreshold)
}

func TestDecodeOffersEmpty(t *testing.T) {
	offers, err := DecodeOffers(nil)
	assert.NoError(t, err)
	assert.Empty(t, offers)
}

func TestOfferLabels(t *testing.T) {
	assert.Equal(t, "25% off", PercentOff{ProductID: 1, Percent: decimal.NewFromInt(25)}.Label())
	assert.Equal(t, "12.5% off", PercentOff{ProductID: 1, Percent: decimal.RequireFromString("12.5")}.Label())
	assert.Equal(t, "Buy 2 get 1 free", Multibuy{ProductID: 1, Threshold: 3}.Label())
	assert.Equal(t, "Buy 3 get cheapest free", CheapestFree{ProductIDs: []int64{1}, Threshold: 3}.Label())
}
