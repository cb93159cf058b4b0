package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFromRow_FullRow(t *testing.T) {
	header := RequiredColumns
	row := []string{"TN001", "DHL", "Sender St 1, Berlin, Germany", "Main St 2, Paris, France", "in-transit", "Mug", "2", "9.99", "SKU001"}

	rec := RecordFromRow(header, row)

	assert.Equal(t, "TN001", rec.TrackingNumber)
	assert.Equal(t, "DHL", rec.Carrier)
	assert.Equal(t, "Sender St 1, Berlin, Germany", rec.SenderAddress)
	assert.Equal(t, "Main St 2, Paris, France", rec.ReceiverAddress)
	assert.Equal(t, "in-transit", rec.Status)
	assert.Equal(t, "Mug", rec.ArticleName)
	require.NotNil(t, rec.ArticleQuantity)
	assert.Equal(t, "2", *rec.ArticleQuantity)
	require.NotNil(t, rec.ArticlePrice)
	assert.Equal(t, "9.99", *rec.ArticlePrice)
	assert.Equal(t, "SKU001", rec.SKU)
}

func TestRecordFromRow_ShortRowLeavesNumericsAbsent(t *testing.T) {
	header := RequiredColumns
	row := []string{"TN002", "UPS", "A", "B", "delivery", "Lamp"}

	rec := RecordFromRow(header, row)

	assert.Equal(t, "TN002", rec.TrackingNumber)
	assert.Equal(t, "Lamp", rec.ArticleName)
	assert.Nil(t, rec.ArticleQuantity)
	assert.Nil(t, rec.ArticlePrice)
	assert.Empty(t, rec.SKU)
}

func TestRecordFromRow_ExtraColumnsIgnored(t *testing.T) {
	header := append(RequiredColumns[:len(RequiredColumns):len(RequiredColumns)], "internal_note")
	row := []string{"TN003", "DPD", "A", "B", "scanned", "Desk", "1", "149.00", "SKU003", "handle with care"}

	got := RecordFromRow(header, row)

	quantity, price := "1", "149.00"
	want := SeedRecord{
		TrackingNumber:  "TN003",
		Carrier:         "DPD",
		SenderAddress:   "A",
		ReceiverAddress: "B",
		Status:          "scanned",
		ArticleName:     "Desk",
		ArticleQuantity: &quantity,
		ArticlePrice:    &price,
		SKU:             "SKU003",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RecordFromRow mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordFromRow_ReorderedHeader(t *testing.T) {
	header := []string{"SKU", "tracking_number", "article_quantity"}
	row := []string{"SKU009", "TN009", "5"}

	rec := RecordFromRow(header, row)

	assert.Equal(t, "TN009", rec.TrackingNumber)
	assert.Equal(t, "SKU009", rec.SKU)
	require.NotNil(t, rec.ArticleQuantity)
	assert.Equal(t, "5", *rec.ArticleQuantity)
	assert.Nil(t, rec.ArticlePrice)
}
