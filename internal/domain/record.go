package domain

// RequiredColumns is the canonical header of a seed CSV file, in file order.
var RequiredColumns = []string{
	"tracking_number",
	"carrier",
	"sender_address",
	"receiver_address",
	"status",
	"article_name",
	"article_quantity",
	"article_price",
	"SKU",
}

// SeedRecord is one raw CSV row with columns bound to named fields. Values
// are kept as unparsed strings; trimming and numeric parsing happen in the
// row processor so that parse failures can be reported per row.
//
// ArticleQuantity and ArticlePrice are pointers because a ragged row can be
// short of those columns: nil means the column was absent from the row,
// which is distinct from an empty value.
type SeedRecord struct {
	TrackingNumber  string
	Carrier         string
	SenderAddress   string
	ReceiverAddress string
	Status          string
	ArticleName     string
	ArticleQuantity *string
	ArticlePrice    *string
	SKU             string
}

// RecordFromRow binds a raw CSV row to a SeedRecord using the file header.
// Columns missing from a short row are left at their zero value (nil for the
// numeric fields).
func RecordFromRow(header []string, row []string) SeedRecord {
	get := func(name string) (string, bool) {
		for i, col := range header {
			if col == name && i < len(row) {
				return row[i], true
			}
		}
		return "", false
	}

	var rec SeedRecord
	rec.TrackingNumber, _ = get("tracking_number")
	rec.Carrier, _ = get("carrier")
	rec.SenderAddress, _ = get("sender_address")
	rec.ReceiverAddress, _ = get("receiver_address")
	rec.Status, _ = get("status")
	rec.ArticleName, _ = get("article_name")
	rec.SKU, _ = get("SKU")

	if v, ok := get("article_quantity"); ok {
		rec.ArticleQuantity = &v
	}
	if v, ok := get("article_price"); ok {
		rec.ArticlePrice = &v
	}
	return rec
}
