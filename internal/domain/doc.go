// Package domain models parcel shipments and the seed data that creates them.
//
// # Seed CSV format
//
// Seed files are UTF-8 CSVs with a mandatory header containing all nine
// columns listed in [RequiredColumns]. Each data row describes one
// shipment-article pair; a shipment spanning several rows accumulates one
// article per row. Carrier and status accept free-form values even though
// seed data usually sticks to [KnownCarriers] and [KnownStatuses].
//
// # Ingestion keys
//
// Shipments are keyed by tracking number alone, articles by
// (shipment, SKU). Both use first-write-wins semantics: once a record
// exists, later rows with the same key never modify it. Re-ingesting the
// same file is therefore a no-op.
//
// # Receiver city
//
// The weather enrichment derives the city from the receiver address, which
// by convention reads "<street>, <postal code> <city>, <country>". See
// [ExtractCity] for the exact rules; malformed addresses yield "" and the
// response degrades to [UnavailableWeather].
package domain
