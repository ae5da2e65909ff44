package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepository devuelve los reportes calculados sobre este almacén.
func (s *Store) ReportRepository() repository.ReportRepository { return &ReportRepo{s: s} }

// ReportRepo implementación en memoria de repository.ReportRepository, con el mismo orden que las
// consultas SQL.
type ReportRepo struct{ s *Store }

func (r *ReportRepo) TotalPaidByCustomer(_ context.Context) ([]entity.CustomerPaidTotal, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	paid := make(map[int64]decimal.Decimal)
	for k, amount := range s.st.payments {
		inv := s.st.invoices[k.invoiceID]
		paid[inv.CustomerID] = paid[inv.CustomerID].Add(amount)
	}
	out := make([]entity.CustomerPaidTotal, 0, len(s.st.customers))
	for id, c := range s.st.customers {
		out = append(out, entity.CustomerPaidTotal{
			CustomerID:     id,
			DocumentNumber: c.DocumentNumber,
			FirstName:      c.FirstName,
			LastName:       c.LastName,
			TotalPaid:      paid[id],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalPaid.Cmp(out[j].TotalPaid); c != 0 {
			return c > 0
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return out, nil
}

func (r *ReportRepo) PendingInvoices(_ context.Context) ([]entity.PendingInvoice, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	type ref struct {
		id   int64
		date time.Time
		ref  string
	}
	paid := make(map[int64]decimal.Decimal)
	refs := make(map[int64][]ref)
	for k, amount := range s.st.payments {
		paid[k.invoiceID] = paid[k.invoiceID].Add(amount)
		tx := s.st.transactions[k.transactionID]
		var date time.Time
		if tx.TransactionDate != nil {
			date = *tx.TransactionDate
		}
		refs[k.invoiceID] = append(refs[k.invoiceID], ref{id: tx.ID, date: date, ref: tx.TransactionReference})
	}

	out := make([]entity.PendingInvoice, 0)
	for id, inv := range s.st.invoices {
		pending := inv.TotalAmount.Sub(paid[id])
		if !pending.IsPositive() {
			continue
		}
		rs := refs[id]
		sort.Slice(rs, func(i, j int) bool {
			if !rs[i].date.Equal(rs[j].date) {
				return rs[i].date.Before(rs[j].date)
			}
			return rs[i].id < rs[j].id
		})
		names := make([]string, 0, len(rs))
		for _, x := range rs {
			names = append(names, x.ref)
		}
		c := s.st.customers[inv.CustomerID]
		out = append(out, entity.PendingInvoice{
			InvoiceID:             id,
			InvoiceNumber:         inv.InvoiceNumber,
			TotalAmount:           inv.TotalAmount,
			TotalPaid:             paid[id],
			PendingAmount:         pending,
			FirstName:             c.FirstName,
			LastName:              c.LastName,
			TransactionReferences: names,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].PendingAmount.Cmp(out[j].PendingAmount); c != 0 {
			return c > 0
		}
		return out[i].InvoiceID < out[j].InvoiceID
	})
	return out, nil
}

func (r *ReportRepo) TransactionsByPlatform(_ context.Context, platform string) ([]entity.PlatformTransaction, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	platformID, ok := s.st.platByName[platform]
	if !ok {
		return []entity.PlatformTransaction{}, nil
	}
	invoicesByTx := make(map[int64][]int64)
	for k := range s.st.payments {
		invoicesByTx[k.transactionID] = append(invoicesByTx[k.transactionID], k.invoiceID)
	}

	out := make([]entity.PlatformTransaction, 0)
	for id, tx := range s.st.transactions {
		if tx.PlatformID != platformID {
			continue
		}
		base := entity.PlatformTransaction{
			TransactionID:        id,
			TransactionReference: tx.TransactionReference,
			Amount:               tx.Amount,
			Currency:             tx.Currency,
			Platform:             platform,
		}
		if tx.TransactionDate != nil {
			base.TransactionDate = *tx.TransactionDate
		}
		invIDs := invoicesByTx[id]
		if len(invIDs) == 0 {
			out = append(out, base)
			continue
		}
		sort.Slice(invIDs, func(i, j int) bool { return invIDs[i] < invIDs[j] })
		for _, invID := range invIDs {
			inv := s.st.invoices[invID]
			c := s.st.customers[inv.CustomerID]
			row := base
			row.InvoiceNumber = strPtr(inv.InvoiceNumber)
			row.FirstName = strPtr(c.FirstName)
			row.LastName = strPtr(c.LastName)
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.After(out[j].TransactionDate)
		}
		return out[i].TransactionID > out[j].TransactionID
	})
	return out, nil
}

func strPtr(s string) *string { return &s }
