package ingest

import (
	"context"
	"fmt"

	"github.com/couchcryptid/parcel-tracking/internal/domain"
)

// ProcessBatch runs every row of one batch through ProcessRow inside a
// single transaction. startIndex is the 0-based offset of the batch within
// the full file.
//
// Row-level failures are collected and never abort the transaction. Only a
// transaction-level fault (failed commit, lost connection, cancelled
// context) rolls the whole batch back; its partial results are then
// discarded and replaced by one synthetic batch error.
func (p *Processor) ProcessBatch(ctx context.Context, st Store, rows []domain.SeedRecord, startIndex int) BatchResult {
	if len(rows) == 0 {
		return BatchResult{}
	}

	var res BatchResult
	err := st.Transaction(ctx, func(tx Tx) error {
		for i, rec := range rows {
			rowNum := startIndex + i + 1
			out := p.ProcessRow(ctx, tx, rec, rowNum)
			if out.Err != "" {
				res.Errors = append(res.Errors, out.Err)
				p.logger.Warn("row rejected", "row", rowNum, "error", out.Err)
				continue
			}
			if out.ShipmentCreated {
				res.ShipmentsCreated++
			}
			if out.ArticleCreated {
				res.ArticlesCreated++
			}
		}
		return nil
	})
	if err != nil {
		// The batch number assumes every batch has this batch's length, so a
		// short final batch can mis-number. Message-stable; see package docs.
		batchNum := startIndex/len(rows) + 1
		msg := fmt.Sprintf("Batch %d failed: %v", batchNum, err)
		p.logger.Error("batch rolled back", "batch", batchNum, "start_row", startIndex+1, "error", err)
		return BatchResult{Errors: []string{msg}}
	}

	p.logger.Debug("batch committed", "start_row", startIndex+1, "rows", len(rows))
	return res
}
